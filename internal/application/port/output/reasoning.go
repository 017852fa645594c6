package output

import "context"

// ReasoningPort is the external black-box text/vision interpretation
// provider. Implementations return free text; callers own all parsing.
type ReasoningPort interface {
	Chat(ctx context.Context, req ChatRequest) (string, error)
	DescribeImage(ctx context.Context, image []byte, prompt string) (string, error)
}

type ChatRequest struct {
	System      string
	Prompt      string
	Temperature float32
}
