package narrative

import (
	"context"
	"errors"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Gemini generates text via the Google Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    *Config
}

// Compile-time interface check.
var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini generator. An API key is required.
func NewGemini(ctx context.Context, opts ...Option) (*Gemini, error) {
	cfg := DefaultConfig()
	cfg.Apply(opts...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, WrapError("gemini", err)
	}

	return &Gemini{client: client, cfg: cfg}, nil
}

// Name identifies the generator.
func (g *Gemini) Name() string {
	return "gemini"
}

// Generate produces text for the prompt. API errors are converted to
// GenerateError so callers can inspect quota/server conditions.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.cfg.Model)
	model.SetTemperature(float32(g.cfg.Temperature))
	model.SetMaxOutputTokens(int32(g.cfg.MaxOutputTokens))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			return "", &GenerateError{
				Provider:   g.Name(),
				StatusCode: apiErr.Code,
				Message:    apiErr.Message,
			}
		}
		return "", WrapError(g.Name(), err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapError(g.Name(), ErrEmptyResponse)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok && txt != "" {
			return string(txt), nil
		}
	}

	return "", WrapError(g.Name(), ErrEmptyResponse)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
