package textgen

import (
	"context"
	"time"

	"fjacquet/sdw-news/internal/config"
	"fjacquet/sdw-news/internal/logging"
)

// NewProvider selects the provider described by cfg. It never fails: a missing
// credential, offline mode or an SDK construction error yields Disabled, so the
// caller always has a degraded mode to fall back on.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger logging.Logger) Provider {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	log := logger.WithField(logging.FieldProvider, cfg.Provider)

	if cfg.Offline {
		log.Info("Text generation disabled, using fallback templates", logging.Field{Key: logging.FieldReason, Value: "offline mode"})
		return NewDisabled("offline mode")
	}
	credential := cfg.Credential()
	if credential == "" {
		log.Info("Text generation disabled, using fallback templates", logging.Field{Key: logging.FieldReason, Value: "missing credential"})
		return NewDisabled("missing credential")
	}

	model := cfg.ResolvedModel()
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	switch cfg.Provider {
	case config.ProviderGemini:
		g, err := NewGemini(ctx, credential, model, logger)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize Gemini client, using fallback templates")
			return NewDisabled(err.Error())
		}
		log.Info("Text generation enabled", logging.Field{Key: logging.FieldModel, Value: model})
		return g
	default:
		log.Info("Text generation enabled", logging.Field{Key: logging.FieldModel, Value: model})
		return NewHuggingFace(cfg.BaseURL, credential, model, timeout, logger)
	}
}
