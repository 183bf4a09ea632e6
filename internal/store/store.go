// Package store persists the enriched customers and template snapshots.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/pipelineerror"
)

// DefaultIndent is the number of spaces used per JSON nesting level.
const DefaultIndent = 4

// NewsStore writes pipeline artifacts.
type NewsStore struct {
	Indent int
	logger logging.Logger
}

// NewNewsStore creates a store. An indent below one selects DefaultIndent,
// so the artifact is always indented.
func NewNewsStore(indent int, logger logging.Logger) *NewsStore {
	if indent < 1 {
		indent = DefaultIndent
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &NewsStore{Indent: indent, logger: logger}
}

// EncodeCustomers renders customers as the JSON artifact: indented, HTML
// escaping off, non-ASCII kept as is, terminated by a newline.
func (s *NewsStore) EncodeCustomers(customers []models.Customer) ([]byte, error) {
	if customers == nil {
		customers = []models.Customer{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", strings.Repeat(" ", s.Indent))
	if err := enc.Encode(customers); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SaveCustomers writes customers to path, creating parent directories. The
// file is replaced as a whole; any failure is a *pipelineerror.PersistError.
func (s *NewsStore) SaveCustomers(path string, customers []models.Customer) error {
	data, err := s.EncodeCustomers(customers)
	if err != nil {
		return &pipelineerror.PersistError{Path: path, Err: fmt.Errorf("error encoding customers: %w", err)}
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, models.PermissionDirectory); err != nil {
			return &pipelineerror.PersistError{Path: path, Err: fmt.Errorf("error creating directory: %w", err)}
		}
	}

	if err := os.WriteFile(path, data, models.PermissionOutputFile); err != nil {
		return &pipelineerror.PersistError{Path: path, Err: err}
	}

	s.logger.Debug("Saved customers",
		logging.Field{Key: logging.FieldOutputFile, Value: path},
		logging.Field{Key: logging.FieldCount, Value: len(customers)})
	return nil
}

// templateSnapshot is the YAML document layout written by SaveTemplates.
type templateSnapshot struct {
	Templates yaml.Node `yaml:"templates"`
}

// SaveTemplates writes templates to w as a YAML document keyed by segment,
// in tier order.
func (s *NewsStore) SaveTemplates(w io.Writer, templates models.TemplateMap) error {
	mapping := yaml.Node{Kind: yaml.MappingNode}
	for _, seg := range models.Segments() {
		tpl, ok := templates.Get(seg)
		if !ok {
			continue
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: seg.String()},
			&yaml.Node{Kind: yaml.ScalarNode, Value: tpl.String(), Style: yaml.DoubleQuotedStyle},
		)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(templateSnapshot{Templates: mapping}); err != nil {
		return fmt.Errorf("error encoding templates: %w", err)
	}
	return enc.Close()
}
