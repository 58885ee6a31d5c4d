package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"decorstudio/internal/extract"
	"decorstudio/internal/session"
)

const maxResponseBytes = 8 << 20

// OpenAIConfig configures the OpenAI-compatible backend.
type OpenAIConfig struct {
	APIKey          string
	BaseURL         string
	ChatModel       string
	VisionModel     string
	ImageModel      string
	ImageSize       string
	VisionMaxTokens int
	Timeout         time.Duration
	HTTPClient      *http.Client
}

// OpenAIClient speaks the chat completions and image generations endpoints.
type OpenAIClient struct {
	cfg    OpenAIConfig
	client *http.Client
}

// NewOpenAIClient constructs a client; zero config fields take the defaults.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gpt-4o"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.ChatModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "dall-e-3"
	}
	if cfg.ImageSize == "" {
		cfg.ImageSize = "1792x1024"
	}
	if cfg.VisionMaxTokens <= 0 {
		cfg.VisionMaxTokens = DefaultVisionMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &OpenAIClient{cfg: cfg, client: client}
}

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens,omitempty"`
	Messages  any    `json:"messages"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type visionMessage struct {
	Role    Role          `json:"role"`
	Content []contentPart `json:"content"`
}

type imageRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	N       int    `json:"n"`
	Size    string `json:"size"`
	Quality string `json:"quality"`
}

// ChatComplete sends the messages and returns the first choice's text.
func (c *OpenAIClient) ChatComplete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	body, err := c.post(ctx, "chat", "/chat/completions", chatRequest{
		Model:     c.cfg.ChatModel,
		MaxTokens: maxTokens,
		Messages:  messages,
	})
	if err != nil {
		return "", err
	}
	return extract.Text(body), nil
}

// AnalyzeImage runs a vision completion over one image and an instruction.
func (c *OpenAIClient) AnalyzeImage(ctx context.Context, image ImageRef, instruction string) (string, error) {
	ref := image.URL
	if image.Inline() {
		mime := image.MIME
		if mime == "" {
			mime = "image/jpeg"
		}
		ref = "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(image.Data)
	}
	if ref == "" {
		return "", fmt.Errorf("llm: vision: no image to analyze")
	}

	body, err := c.post(ctx, "vision", "/chat/completions", chatRequest{
		Model:     c.cfg.VisionModel,
		MaxTokens: c.cfg.VisionMaxTokens,
		Messages: []visionMessage{{
			Role: RoleUser,
			Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{URL: ref, Detail: "low"}},
				{Type: "text", Text: instruction},
			},
		}},
	})
	if err != nil {
		return "", err
	}
	return extract.Text(body), nil
}

// GenerateImage renders a single image and returns its remote URL.
func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string, quality session.Quality) (ImageOutput, error) {
	if quality == "" {
		quality = session.QualityStandard
	}
	body, err := c.post(ctx, "image", "/images/generations", imageRequest{
		Model:   c.cfg.ImageModel,
		Prompt:  prompt,
		N:       1,
		Size:    c.cfg.ImageSize,
		Quality: string(quality),
	})
	if err != nil {
		return ImageOutput{}, err
	}
	url, err := extract.ImageURL(body)
	if err != nil {
		return ImageOutput{}, fmt.Errorf("llm: image: %w", err)
	}
	return ImageOutput{URL: url}, nil
}

// post issues one request and classifies the outcome. The returned body is
// only set for a success status carrying no error object.
func (c *OpenAIClient) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: %s: marshal payload: %w", op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("llm: %s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, transportError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(op, resp.StatusCode, body)
	}
	if pe, ok := bodyError(op, resp.StatusCode, body); ok {
		return nil, pe
	}
	return body, nil
}
