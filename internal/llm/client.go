package llm

import (
	"context"

	"decorstudio/internal/session"
)

// Role is the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ImageRef points at an image either by URL or by inline bytes.
type ImageRef struct {
	URL  string
	Data []byte
	MIME string
}

// Inline reports whether the reference carries the image bytes.
func (r ImageRef) Inline() bool {
	return len(r.Data) > 0
}

// ImageOutput is a generated image. MediaKey is set when the backend stored
// the bytes itself and URL points at the local media route.
type ImageOutput struct {
	URL      string
	MediaKey string
}

// DefaultVisionMaxTokens bounds every vision completion.
const DefaultVisionMaxTokens = 400

// Client is the only component allowed to talk to the AI provider. Every
// method performs exactly one provider call, without retries or caching.
type Client interface {
	ChatComplete(ctx context.Context, messages []Message, maxTokens int) (string, error)
	AnalyzeImage(ctx context.Context, image ImageRef, instruction string) (string, error)
	GenerateImage(ctx context.Context, prompt string, quality session.Quality) (ImageOutput, error)
}
