package ai

import "context"

// Request is a single prompt for a text-generation provider
type Request struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
	// Name identifies provider and model in audit records.
	Name() string
}
