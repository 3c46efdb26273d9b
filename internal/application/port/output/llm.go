package output

import "context"

// GeneratorPort is the opaque text-generation backend. Every backend
// failure, whether transport, quota or model, surfaces as a single
// undifferentiated error.
type GeneratorPort interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
