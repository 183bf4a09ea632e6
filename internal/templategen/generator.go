// Package templategen drafts one marketing template per customer segment,
// falling back to fixed copy whenever remote generation is unavailable or
// returns something unusable.
package templategen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fjacquet/sdw-news/internal/config"
	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/models"
	"fjacquet/sdw-news/internal/personalizer"
	"fjacquet/sdw-news/internal/pipelineerror"
	"fjacquet/sdw-news/internal/textgen"
)

// SystemPrompt is the role given to the model.
const SystemPrompt = "You are a banking marketing specialist."

// quoteChars are stripped from both ends of a generated sentence.
const quoteChars = "\"'`“”‘’«»"

// Options tunes a Generator.
type Options struct {
	Language    string
	MaxTokens   int
	Temperature float64
	TopP        float64
	Timeout     time.Duration
}

// DefaultOptions returns the tuning values used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Language:    "English",
		MaxTokens:   models.MaxMessageLength,
		Temperature: 0.7,
		TopP:        0.9,
		Timeout:     30 * time.Second,
	}
}

// OptionsFromConfig maps the AI section of the configuration onto Options.
func OptionsFromConfig(cfg config.AIConfig) Options {
	opts := DefaultOptions()
	if cfg.Language != "" {
		opts.Language = cfg.Language
	}
	if cfg.MaxTokens > 0 {
		opts.MaxTokens = cfg.MaxTokens
	}
	opts.Temperature = cfg.Temperature
	opts.TopP = cfg.TopP
	if cfg.TimeoutSeconds > 0 {
		opts.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return opts
}

// Generator produces segment templates using a textgen.Provider.
type Generator struct {
	provider textgen.Provider
	opts     Options
	logger   logging.Logger
}

// NewGenerator creates a Generator. A nil provider behaves as disabled.
func NewGenerator(provider textgen.Provider, opts Options, logger logging.Logger) *Generator {
	if provider == nil {
		provider = textgen.NewDisabled("no provider")
	}
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	if opts.Language == "" {
		opts.Language = DefaultOptions().Language
	}
	return &Generator{provider: provider, opts: opts, logger: logger}
}

// Provider returns the backend used by the generator.
func (g *Generator) Provider() textgen.Provider {
	return g.provider
}

// Generate returns a template for seg. It never fails: any generation error is
// logged and replaced by the segment's fallback template.
func (g *Generator) Generate(ctx context.Context, seg models.Segment) models.Template {
	tpl, err := g.attempt(ctx, seg)
	if err == nil {
		g.logger.Debug("Generated template",
			logging.Field{Key: logging.FieldSegment, Value: seg.String()},
			logging.Field{Key: logging.FieldProvider, Value: g.provider.Name()})
		return tpl
	}

	genErr := &pipelineerror.GenerationError{Segment: seg.String(), Provider: g.provider.Name(), Err: err}
	g.logger.Warn("Using fallback template",
		logging.Field{Key: logging.FieldSegment, Value: seg.String()},
		logging.Field{Key: logging.FieldProvider, Value: g.provider.Name()},
		logging.Field{Key: logging.FieldError, Value: genErr.Error()})
	return models.FallbackTemplate(seg)
}

func (g *Generator) attempt(ctx context.Context, seg models.Segment) (models.Template, error) {
	if !seg.IsValid() {
		return "", fmt.Errorf("unknown segment %q", seg)
	}

	callCtx := ctx
	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	text, err := g.provider.Generate(callCtx, textgen.Request{
		System:      SystemPrompt,
		Prompt:      BuildPrompt(seg, g.opts.Language),
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
		TopP:        g.opts.TopP,
	})
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
		}
		return "", err
	}
	return Normalize(text)
}

// BuildPrompt returns the instruction sent to the model for seg.
func BuildPrompt(seg models.Segment, language string) string {
	var b strings.Builder
	b.WriteString("You are a marketing specialist at a large bank.\n")
	fmt.Fprintf(&b, "Write a personalized message of at most %d characters in %s about the importance of investing, tailored to the customer segment below.\n",
		models.MaxMessageLength, language)
	fmt.Fprintf(&b, "Use exactly the marker %s where the customer's name must be inserted.\n", models.Placeholder)
	fmt.Fprintf(&b, "Segment: %s\n", seg)
	fmt.Fprintf(&b, "Segment description: %s\n", models.SegmentDescription(seg))
	b.WriteString("Important: do not put quotation marks around the sentence. Do not add explanations, only the final sentence.\n")
	return b.String()
}

// Normalize turns raw model output into a usable template: trimmed, carrying
// the placeholder, at most models.MaxMessageLength runes and syntactically valid.
func Normalize(text string) (models.Template, error) {
	s := trimQuotes(text)
	if s == "" {
		return "", textgen.ErrEmptyResponse
	}

	if !strings.Contains(s, models.Placeholder) {
		s = prefixed(s)
	}
	if cut := personalizer.Truncate(s, models.MaxMessageLength); cut != s {
		s = cut
		if !strings.Contains(s, models.Placeholder) {
			s = personalizer.Truncate(prefixed(stripBraces(s)), models.MaxMessageLength)
		}
	}

	tpl := models.Template(s)
	n, err := personalizer.Placeholders(tpl)
	if err != nil {
		return "", fmt.Errorf("malformed template from model: %w", err)
	}
	// An escaped "{{customer_name}}" renders the raw token, so the literal
	// count must agree with the parsed one.
	if n != 1 || strings.Count(s, models.Placeholder) != 1 {
		return "", fmt.Errorf("malformed template from model: want exactly one %s, found %d", models.Placeholder, n)
	}
	return tpl, nil
}

func stripBraces(s string) string {
	return strings.NewReplacer("{", "", "}", "").Replace(s)
}

func prefixed(s string) string {
	return models.Placeholder + ", " + s
}

func trimQuotes(s string) string {
	for {
		t := strings.TrimSpace(s)
		t = strings.TrimLeft(t, quoteChars)
		t = strings.TrimRight(t, quoteChars)
		if t == s {
			return t
		}
		s = t
	}
}
