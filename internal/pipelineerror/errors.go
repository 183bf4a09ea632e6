// Package pipelineerror defines the typed errors raised by the news pipeline.
// Callers inspect them with errors.As.
package pipelineerror

import (
	"fmt"
	"strings"
)

// LoadError represents a failure to read customers from the input dataset.
// Either Missing/Found describe a header problem, or Row/Field/Value point
// at the offending cell.
type LoadError struct {
	Path    string
	Missing []string
	Found   []string
	Row     int
	Field   string
	Value   string
	Err     error
}

func (e *LoadError) Error() string {
	switch {
	case len(e.Missing) > 0:
		return fmt.Sprintf("load %s: missing columns [%s]; columns found: [%s]",
			e.Path, strings.Join(e.Missing, ", "), strings.Join(e.Found, ", "))
	case e.Field != "":
		return fmt.Sprintf("load %s: row %d: invalid %s='%s': %v",
			e.Path, e.Row, e.Field, e.Value, e.Err)
	default:
		return fmt.Sprintf("load %s: %v", e.Path, e.Err)
	}
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// GenerationError represents a failed attempt to obtain a template from the
// remote text-generation capability. It never leaves the template generator.
type GenerationError struct {
	Segment  string
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("template generation for segment %s using %s failed: %v",
		e.Segment, e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// FormatError represents malformed placeholder syntax in a template.
type FormatError struct {
	Template string
	Position int
	Reason   string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed template at position %d: %s (template: %q)",
		e.Position, e.Reason, e.Template)
}

// PersistError represents a failure writing the output artifact.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}
