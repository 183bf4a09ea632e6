// Package textgen provides the remote text-generation capability used to draft
// segment templates. Implementations talk to a hosted language model; the
// Disabled provider stands in when no credential is configured.
package textgen

import (
	"context"
	"errors"
)

var (
	// ErrDisabled is returned by the Disabled provider without performing any I/O.
	ErrDisabled = errors.New("text generation is disabled")
	// ErrEmptyResponse is returned when the model answers without usable text.
	ErrEmptyResponse = errors.New("text generation returned an empty response")
)

// Request is a single chat-style generation request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Provider generates free text from a prompt.
type Provider interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Generate performs one synchronous call. It honours ctx cancellation.
	Generate(ctx context.Context, req Request) (string, error)
	// Close releases any client resources.
	Close() error
}
