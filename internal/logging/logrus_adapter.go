package logging

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// LogrusAdapter backs Logger with logrus. Loggers derived through the With
// methods share the parent's *logrus.Logger, so they write to the same output
// at the same level.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter creates a Logger writing to stderr. level is one of
// debug, info, warn or error; format is "json" or "text".
func NewLogrusAdapter(level, format string) Logger {
	return NewLogrusAdapterWithOutput(level, format, nil)
}

// NewLogrusAdapterWithOutput behaves like NewLogrusAdapter but writes to out.
// A nil writer keeps stderr. An unknown level logs a warning and selects info.
func NewLogrusAdapterWithOutput(level, format string, out io.Writer) Logger {
	logger := logrus.New()
	if out != nil {
		logger.SetOutput(out)
	}
	logger.SetFormatter(newFormatter(format))

	lvl, ok := parseLevel(level)
	logger.SetLevel(lvl)
	if !ok {
		logger.WithField("log_level", level).Warn("Unknown log level, using info")
	}
	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

// NewLogrusAdapterFromLogger wraps an existing logrus.Logger. nil yields a
// fresh logger with logrus defaults.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogrusAdapter{entry: logrus.NewEntry(logger)}
}

func parseLevel(level string) (logrus.Level, bool) {
	lvl, err := logrus.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return logrus.InfoLevel, false
	}
	return lvl, true
}

func newFormatter(format string) logrus.Formatter {
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return &logrus.JSONFormatter{}
	}
	return &logrus.TextFormatter{FullTimestamp: true}
}

func (l *LogrusAdapter) with(entry *logrus.Entry) Logger {
	return &LogrusAdapter{entry: entry}
}

func (l *LogrusAdapter) at(fields []Field) *logrus.Entry {
	if len(fields) == 0 {
		return l.entry
	}
	return l.entry.WithFields(convertFields(fields))
}

// Debug logs at debug level.
func (l *LogrusAdapter) Debug(msg string, fields ...Field) { l.at(fields).Debug(msg) }

// Info logs at info level.
func (l *LogrusAdapter) Info(msg string, fields ...Field) { l.at(fields).Info(msg) }

// Warn logs at warn level.
func (l *LogrusAdapter) Warn(msg string, fields ...Field) { l.at(fields).Warn(msg) }

// Error logs at error level.
func (l *LogrusAdapter) Error(msg string, fields ...Field) { l.at(fields).Error(msg) }

// Fatal logs at fatal level and exits the process.
func (l *LogrusAdapter) Fatal(msg string, fields ...Field) { l.at(fields).Fatal(msg) }

// WithError attaches err under the FieldError key.
func (l *LogrusAdapter) WithError(err error) Logger {
	return l.with(l.entry.WithField(FieldError, err))
}

// WithField attaches a single field.
func (l *LogrusAdapter) WithField(key string, value interface{}) Logger {
	return l.with(l.entry.WithField(key, value))
}

// WithFields attaches several fields at once.
func (l *LogrusAdapter) WithFields(fields ...Field) Logger {
	return l.with(l.at(fields))
}

// convertFields maps fields onto logrus.Fields. A later field wins over an
// earlier one with the same key.
func convertFields(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
