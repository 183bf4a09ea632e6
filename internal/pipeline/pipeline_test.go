package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/sdw-news/internal/customerparser"
	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/personalizer"
	"fjacquet/sdw-news/internal/pipelineerror"
	"fjacquet/sdw-news/internal/store"
	"fjacquet/sdw-news/internal/templategen"
	"fjacquet/sdw-news/internal/textgen"
)

const sampleCSV = "UserID,Name,Balance\n1,Ana,3000\n2,Bruno,7000\n3,Carla,15000\n"

// staticSource returns fixed templates and counts calls.
type staticSource struct {
	templates models.TemplateMap
	calls     int
}

func (s *staticSource) Generate(_ context.Context, seg models.Segment) models.Template {
	s.calls++
	if t, ok := s.templates[seg]; ok {
		return t
	}
	return models.FallbackTemplate(seg)
}

func newOfflinePipeline(logger logging.Logger) *Pipeline {
	gen := templategen.NewGenerator(textgen.NewDisabled("offline mode"), templategen.DefaultOptions(), logger)
	return New(
		customerparser.NewParser(customerparser.Options{}, logger),
		gen,
		personalizer.NewPersonalizer(logger),
		store.NewNewsStore(store.DefaultIndent, logger),
		logger,
	)
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SDW2023.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestRun_EndToEndOffline(t *testing.T) {
	in := writeInput(t, sampleCSV)
	out := filepath.Join(t.TempDir(), "output_users_with_news.json")
	logger := logging.NewMockLogger()

	customers, err := newOfflinePipeline(logger).Run(context.Background(), in, out)
	require.NoError(t, err)
	require.Len(t, customers, 3)

	want := []string{
		"Ana, start investing little by little and build a safer financial future.",
		"Bruno, put part of your balance into investments and make your money grow.",
		"Carla, diversifying your investments can boost your long-term results.",
	}
	for i, c := range customers {
		require.Len(t, c.News, 1)
		assert.Equal(t, want[i], c.News[0].Description)
		assert.Equal(t, models.DefaultNewsIcon, c.News[0].Icon)
	}

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var decoded []struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Account struct {
			Balance float64 `json:"balance"`
		} `json:"account"`
		News []models.Message `json:"news"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.Equal(t, int64(2), decoded[1].ID)
	assert.Equal(t, 7000.0, decoded[1].Account.Balance)
	assert.Equal(t, want[2], decoded[2].News[0].Description)

	// One warning per distinct segment, none per customer.
	assert.Len(t, logger.GetEntriesByLevel("WARN"), 3)

	var stages []interface{}
	for _, e := range logger.GetEntriesByLevel("INFO") {
		v, ok := e.FieldValue(logging.FieldStage)
		if !ok {
			continue
		}
		stages = append(stages, v)
		_, hasRun := e.FieldValue(logging.FieldRunID)
		assert.True(t, hasRun, "entry %q lacks run id", e.Message)
	}
	for _, s := range []string{StageLoad, StageClassify, StageGenerate, StagePersonalize, StagePersist} {
		assert.Contains(t, stages, s)
	}
}

func TestRun_Idempotent(t *testing.T) {
	in := writeInput(t, sampleCSV)
	dir := t.TempDir()
	first := filepath.Join(dir, "first.json")
	second := filepath.Join(dir, "second.json")

	_, err := newOfflinePipeline(logging.NewMockLogger()).Run(context.Background(), in, first)
	require.NoError(t, err)
	_, err = newOfflinePipeline(logging.NewMockLogger()).Run(context.Background(), in, second)
	require.NoError(t, err)

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestRun_OneGenerationPerSegment(t *testing.T) {
	in := writeInput(t, "UserID,Name,Balance\n1,A,10\n2,B,20\n3,C,30\n4,D,20000\n")
	out := filepath.Join(t.TempDir(), "out.json")
	src := &staticSource{}
	logger := logging.NewMockLogger()

	p := New(customerparser.NewParser(customerparser.Options{}, logger), src, nil, store.NewNewsStore(4, logger), logger)
	_, err := p.Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestRun_LoadErrorAborts(t *testing.T) {
	in := writeInput(t, "Id,Name\n1,Ana\n")
	out := filepath.Join(t.TempDir(), "out.json")
	src := &staticSource{}
	logger := logging.NewMockLogger()

	p := New(customerparser.NewParser(customerparser.Options{}, logger), src, nil, store.NewNewsStore(4, logger), logger)
	_, err := p.Run(context.Background(), in, out)

	var le *pipelineerror.LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 0, src.calls)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "no artifact on load failure")
}

func TestRun_FormatErrorAborts(t *testing.T) {
	in := writeInput(t, sampleCSV)
	out := filepath.Join(t.TempDir(), "out.json")
	src := &staticSource{templates: models.TemplateMap{
		models.SegmentGrowing: "{customer_name}, grow {now",
	}}
	logger := logging.NewMockLogger()

	p := New(customerparser.NewParser(customerparser.Options{}, logger), src, nil, store.NewNewsStore(4, logger), logger)
	_, err := p.Run(context.Background(), in, out)

	var fe *pipelineerror.FormatError
	require.True(t, errors.As(err, &fe), "got %v", err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
	assert.NotEmpty(t, logger.GetEntriesByLevel("ERROR"))
}

func TestRun_PersistErrorAborts(t *testing.T) {
	in := writeInput(t, sampleCSV)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := newOfflinePipeline(logging.NewMockLogger()).Run(context.Background(), in, filepath.Join(blocker, "out.json"))

	var pe *pipelineerror.PersistError
	assert.True(t, errors.As(err, &pe), "got %v", err)
}

func TestRun_BlankNameUsesGenericTerm(t *testing.T) {
	in := writeInput(t, "UserID,Name,Balance\n1,,100\n")
	out := filepath.Join(t.TempDir(), "out.json")

	customers, err := newOfflinePipeline(logging.NewMockLogger()).Run(context.Background(), in, out)
	require.NoError(t, err)
	assert.Equal(t, "customer, start investing little by little and build a safer financial future.", customers[0].News[0].Description)
}

func TestRun_CancelledContext(t *testing.T) {
	in := writeInput(t, sampleCSV)
	out := filepath.Join(t.TempDir(), "out.json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newOfflinePipeline(logging.NewMockLogger()).Run(ctx, in, out)
	assert.ErrorIs(t, err, context.Canceled)
}
