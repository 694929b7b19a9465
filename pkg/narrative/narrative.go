// Package narrative provides the text-generation capability used to
// explain detection verdicts. The remote client is behind a small
// Generator interface with a Disabled implementation, so callers never
// nil-check a client; they always hold a Generator.
package narrative

import "context"

// Generator produces natural-language text for a prompt.
type Generator interface {
	// Generate returns text for the prompt. Callers bound the call
	// with a context timeout; implementations must respect it.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the implementation for logs.
	Name() string
}
