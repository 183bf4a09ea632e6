package textgen

import "context"

// Disabled is the provider used when generation is unavailable.
type Disabled struct {
	Reason string
}

// NewDisabled returns a provider that always fails with ErrDisabled.
func NewDisabled(reason string) *Disabled {
	return &Disabled{Reason: reason}
}

// Name implements Provider.
func (d *Disabled) Name() string { return "disabled" }

// Generate implements Provider.
func (d *Disabled) Generate(_ context.Context, _ Request) (string, error) {
	return "", ErrDisabled
}

// Close implements Provider.
func (d *Disabled) Close() error { return nil }
