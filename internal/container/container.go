// Package container provides dependency injection for the sdw-news application.
// It centralizes the creation and wiring of all application dependencies,
// making them explicit and testable.
package container

import (
	"context"
	"errors"
	"fmt"
	"io"

	"fjacquet/sdw-news/internal/config"
	"fjacquet/sdw-news/internal/customerparser"
	"fjacquet/sdw-news/internal/logging"
	"fjacquet/sdw-news/internal/personalizer"
	"fjacquet/sdw-news/internal/pipeline"
	"fjacquet/sdw-news/internal/store"
	"fjacquet/sdw-news/internal/templategen"
	"fjacquet/sdw-news/internal/textgen"
)

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger       logging.Logger
	logFile      io.Closer
	config       *config.Config
	provider     textgen.Provider
	generator    *templategen.Generator
	parser       *customerparser.Parser
	personalizer *personalizer.Personalizer
	store        *store.NewsStore
	pipeline     *pipeline.Pipeline
}

// Option customizes container construction.
type Option func(*options)

type options struct {
	logger   logging.Logger
	provider textgen.Provider
}

// WithLogger injects a logger instead of building one from the configuration.
func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithProvider injects a text-generation provider instead of selecting one
// from the configuration.
func WithProvider(p textgen.Provider) Option {
	return func(o *options) { o.provider = p }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	// Create logger first as it's needed by other components
	logger, logFile := o.logger, io.Closer(nil)
	if logger == nil {
		logger, logFile = NewLogger(cfg.Log)
	}

	provider := o.provider
	if provider == nil {
		provider = textgen.NewProvider(ctx, cfg.AI, logger)
	}

	delimiter := ','
	if r := []rune(cfg.Input.Delimiter); len(r) > 0 {
		delimiter = r[0]
	}

	gen := templategen.NewGenerator(provider, templategen.OptionsFromConfig(cfg.AI), logger)
	parser := customerparser.NewParser(customerparser.Options{Delimiter: delimiter, Sheet: cfg.Input.Sheet}, logger)
	pers := personalizer.NewPersonalizer(logger)
	newsStore := store.NewNewsStore(cfg.Output.Indent, logger)

	logger.Debug("Container initialized successfully",
		logging.Field{Key: logging.FieldProvider, Value: provider.Name()})

	return &Container{
		logger:       logger,
		logFile:      logFile,
		config:       cfg,
		provider:     provider,
		generator:    gen,
		parser:       parser,
		personalizer: pers,
		store:        newsStore,
		pipeline:     pipeline.New(parser, gen, pers, newsStore, logger),
	}, nil
}

// NewLogger builds the logrus-backed logger described by cfg. When a log file
// is configured the returned closer releases it; otherwise it is nil.
func NewLogger(cfg config.LogConfig) (logging.Logger, io.Closer) {
	if cfg.File == "" {
		return logging.NewLogrusAdapter(cfg.Level, cfg.Format), nil
	}
	w := logging.NewRotatingFileWriter(logging.FileOptions{
		Path:       cfg.File,
		MaxSizeMB:  cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	})
	return logging.NewLogrusAdapterWithOutput(cfg.Level, cfg.Format, w), w
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// GetProvider returns the text-generation provider.
func (c *Container) GetProvider() textgen.Provider {
	return c.provider
}

// GetGenerator returns the template generator.
func (c *Container) GetGenerator() *templategen.Generator {
	return c.generator
}

// GetParser returns the customer dataset parser.
func (c *Container) GetParser() *customerparser.Parser {
	return c.parser
}

// GetStore returns the artifact store.
func (c *Container) GetStore() *store.NewsStore {
	return c.store
}

// GetPipeline returns the fully wired pipeline.
func (c *Container) GetPipeline() *pipeline.Pipeline {
	return c.pipeline
}

// Close releases the provider client and the log file, if any.
func (c *Container) Close() error {
	var errs []error
	if err := c.provider.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close provider: %w", err))
	}
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}
	return errors.Join(errs...)
}
