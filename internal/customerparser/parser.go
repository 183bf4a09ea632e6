// Package customerparser reads the customer dataset from CSV or XLSX files.
package customerparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/pipelineerror"
)

// RequiredColumns lists the header names every dataset must carry.
var RequiredColumns = []string{models.ColumnUserID, models.ColumnName, models.ColumnBalance}

// customerRow is the raw shape of one dataset row. Values stay strings so
// conversion failures can be reported with their row and column.
type customerRow struct {
	UserID  string `csv:"UserID"`
	Name    string `csv:"Name"`
	Balance string `csv:"Balance"`
}

// Options configures a Parser.
type Options struct {
	// Delimiter separates CSV fields. Zero means ','.
	Delimiter rune
	// Sheet selects the XLSX worksheet. Empty means the first sheet.
	Sheet string
}

// Parser loads customers from a dataset file.
type Parser struct {
	opts   Options
	logger logging.Logger
}

// NewParser creates a Parser.
func NewParser(opts Options, logger logging.Logger) *Parser {
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Parser{opts: opts, logger: logger}
}

// Parse reads every customer from path. Files ending in .xlsx are read as
// workbooks, anything else as delimited text. Each customer starts with an
// empty news list.
func (p *Parser) Parse(path string) ([]models.Customer, error) {
	p.logger.Info("Reading customers", logging.Field{Key: logging.FieldInputFile, Value: path})

	var records [][]string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		records, err = p.readWorkbook(path)
	} else {
		records, err = p.readDelimited(path)
	}
	if err != nil {
		return nil, &pipelineerror.LoadError{Path: path, Err: err}
	}

	customers, err := parseRecords(path, records)
	if err != nil {
		return nil, err
	}

	p.logger.Info("Successfully read customers",
		logging.Field{Key: logging.FieldInputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(customers)})
	return customers, nil
}

func (p *Parser) readDelimited(path string) ([][]string, error) {
	file, err := os.Open(path) // #nosec G304 -- path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			p.logger.WithError(cerr).Warn("Failed to close file")
		}
	}()

	r := csv.NewReader(file)
	r.Comma = p.opts.Delimiter
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error parsing CSV: %w", err)
	}
	return records, nil
}

func (p *Parser) readWorkbook(path string) ([][]string, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("error opening workbook: %w", err)
	}
	defer func() {
		if cerr := wb.Close(); cerr != nil {
			p.logger.WithError(cerr).Warn("Failed to close workbook")
		}
	}()

	sheet := p.opts.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("error reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}

// parseRecords validates the header and converts the data rows. Blank rows
// are skipped; row numbers in errors are 1-based file lines.
func parseRecords(path string, records [][]string) ([]models.Customer, error) {
	if len(records) == 0 {
		return nil, &pipelineerror.LoadError{Path: path, Missing: sortedCopy(RequiredColumns), Found: []string{}}
	}

	header := cleanHeader(records[0])
	if missing := missingColumns(header); len(missing) > 0 {
		return nil, &pipelineerror.LoadError{Path: path, Missing: missing, Found: header}
	}

	data := make([][]string, 0, len(records))
	lines := make([]int, 0, len(records))
	data = append(data, header)
	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		data = append(data, fitWidth(rec, len(header)))
		lines = append(lines, i+2)
	}

	var rows []customerRow
	if len(lines) > 0 {
		if err := gocsv.UnmarshalCSV(&recordReader{records: data}, &rows); err != nil {
			return nil, &pipelineerror.LoadError{Path: path, Err: fmt.Errorf("error decoding rows: %w", err)}
		}
	}

	customers := make([]models.Customer, 0, len(rows))
	for i, row := range rows {
		c, err := row.toCustomer()
		if err != nil {
			var le *pipelineerror.LoadError
			if errors.As(err, &le) {
				le.Path = path
				le.Row = lines[i]
			}
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

func (r customerRow) toCustomer() (models.Customer, error) {
	idText := strings.TrimSpace(r.UserID)
	id, err := parseID(idText)
	if err != nil {
		return models.Customer{}, &pipelineerror.LoadError{Field: models.ColumnUserID, Value: idText, Err: err}
	}

	balanceText := strings.TrimSpace(r.Balance)
	balance, err := decimal.NewFromString(balanceText)
	if err != nil {
		return models.Customer{}, &pipelineerror.LoadError{Field: models.ColumnBalance, Value: balanceText, Err: err}
	}

	return models.NewCustomer(id, strings.TrimSpace(r.Name), balance), nil
}

// parseID accepts integral values, including spreadsheet renderings such as "7.0".
func parseID(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("not an integer")
	}
	return d.IntPart(), nil
}

func cleanHeader(rec []string) []string {
	out := make([]string, len(rec))
	for i, h := range rec {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

func missingColumns(header []string) []string {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	var missing []string
	for _, col := range RequiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

func sortedCopy(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// fitWidth pads or trims rec to n fields. Workbooks drop trailing empty cells.
func fitWidth(rec []string, n int) []string {
	if len(rec) == n {
		return rec
	}
	out := make([]string, n)
	copy(out, rec)
	return out
}

// recordReader feeds already-split records to gocsv.
type recordReader struct {
	records [][]string
	next    int
}

func (r *recordReader) Read() ([]string, error) {
	if r.next >= len(r.records) {
		return nil, io.EOF
	}
	rec := r.records[r.next]
	r.next++
	return rec, nil
}

func (r *recordReader) ReadAll() ([][]string, error) {
	rest := r.records[r.next:]
	r.next = len(r.records)
	return rest, nil
}
