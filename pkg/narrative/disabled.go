package narrative

import "context"

// Disabled is the generator used when no remote service is configured.
// Every call fails with ErrDisabled, which callers degrade from.
type Disabled struct{}

// Compile-time interface check.
var _ Generator = (*Disabled)(nil)

// NewDisabled creates a disabled generator.
func NewDisabled() *Disabled {
	return &Disabled{}
}

// Name identifies the generator.
func (d *Disabled) Name() string {
	return "disabled"
}

// Generate always fails with ErrDisabled.
func (d *Disabled) Generate(ctx context.Context, prompt string) (string, error) {
	return "", ErrDisabled
}
