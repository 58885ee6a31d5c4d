package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"decorstudio/internal/extract"
	"decorstudio/internal/media"
	"decorstudio/internal/session"
)

// geminiAspectRatio matches the wide 1792x1024 frame requested from OpenAI.
const geminiAspectRatio = "16:9"

// GeminiConfig configures the Gemini backend.
type GeminiConfig struct {
	APIKey          string
	BaseURL         string
	TextModel       string
	VisionModel     string
	ImageModel      string
	HDImageModel    string
	VisionMaxTokens int
	Timeout         time.Duration
}

// GeminiClient wraps the official genai client. Gemini returns generated
// images inline, so they are stored through the media uploader and handed
// back as local URLs.
type GeminiClient struct {
	cli   *genai.Client
	cfg   GeminiConfig
	store media.Uploader
	http  *http.Client
}

// NewGeminiClient constructs a Gemini client storing renderings in store.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig, store media.Uploader) (*GeminiClient, error) {
	if cfg.TextModel == "" {
		cfg.TextModel = "gemini-2.5-flash"
	}
	if cfg.VisionModel == "" {
		cfg.VisionModel = cfg.TextModel
	}
	if cfg.ImageModel == "" {
		cfg.ImageModel = "gemini-2.5-flash-image"
	}
	if cfg.HDImageModel == "" {
		cfg.HDImageModel = cfg.ImageModel
	}
	if cfg.VisionMaxTokens <= 0 {
		cfg.VisionMaxTokens = DefaultVisionMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	for _, m := range []*string{&cfg.TextModel, &cfg.VisionModel, &cfg.ImageModel, &cfg.HDImageModel} {
		*m = strings.TrimPrefix(strings.TrimSpace(*m), "models/")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("llm: create genai client: %w", err)
	}
	return &GeminiClient{
		cli:   cli,
		cfg:   cfg,
		store: store,
		http:  &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// ChatComplete folds system turns into the system instruction and sends the rest.
func (g *GeminiClient) ChatComplete(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	var system []string
	var contents []*genai.Content
	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(msg.Content)}, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromParts([]*genai.Part{genai.NewPartFromText(msg.Content)}, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return "", fmt.Errorf("llm: chat: missing user messages")
	}

	cfg := &genai.GenerateContentConfig{MaxOutputTokens: int32(maxTokens)}
	if len(system) > 0 {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(strings.Join(system, "\n\n"))}}
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.TextModel, contents, cfg)
	if err != nil {
		return "", genaiError("chat", err)
	}
	return candidateText(resp), nil
}

// AnalyzeImage sends the image bytes inline with the instruction. URL
// references are resolved to bytes first.
func (g *GeminiClient) AnalyzeImage(ctx context.Context, image ImageRef, instruction string) (string, error) {
	data, mime := image.Data, image.MIME
	if !image.Inline() {
		var err error
		data, mime, err = g.resolve(ctx, image.URL)
		if err != nil {
			return "", err
		}
	}

	parts := []*genai.Part{
		{InlineData: &genai.Blob{MIMEType: media.DetectImageType(data, mime), Data: data}},
		genai.NewPartFromText(instruction),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := g.cli.Models.GenerateContent(ctx, g.cfg.VisionModel, contents,
		&genai.GenerateContentConfig{MaxOutputTokens: int32(g.cfg.VisionMaxTokens)})
	if err != nil {
		return "", genaiError("vision", err)
	}
	return candidateText(resp), nil
}

// GenerateImage asks an image-capable model for one rendering. The hd tier
// selects the high fidelity model.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string, quality session.Quality) (ImageOutput, error) {
	model := g.cfg.ImageModel
	if quality == session.QualityHD {
		model = g.cfg.HDImageModel
	}

	resp, err := g.cli.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ImageConfig: &genai.ImageConfig{AspectRatio: geminiAspectRatio},
	})
	if err != nil {
		return ImageOutput{}, genaiError("image", err)
	}

	blob := candidateImage(resp)
	if blob == nil {
		return ImageOutput{}, fmt.Errorf("llm: image: %w", extract.ErrMissingImage)
	}
	res, err := g.store.Upload(ctx, media.UploadInput{
		ContentType: media.DetectImageType(blob.Data, blob.MIMEType),
		Body:        bytes.NewReader(blob.Data),
		Size:        int64(len(blob.Data)),
	})
	if err != nil {
		return ImageOutput{}, fmt.Errorf("llm: image: store rendering: %w", err)
	}
	return ImageOutput{URL: res.URL, MediaKey: res.Key}, nil
}

// resolve turns an image URL into bytes. Data URLs are decoded in place and
// remote URLs fetched once.
func (g *GeminiClient) resolve(ctx context.Context, ref string) ([]byte, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, "", fmt.Errorf("llm: vision: no image to analyze")
	}
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("llm: vision: malformed data URL")
		}
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", fmt.Errorf("llm: vision: decode data URL: %w", err)
		}
		return data, strings.TrimSuffix(meta, ";base64"), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, "", fmt.Errorf("llm: vision: fetch %s: %w", ref, err)
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return nil, "", transportError("vision", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", &ProviderError{Op: "vision", Kind: KindHTTPStatus, StatusCode: resp.StatusCode, Message: fmt.Sprintf("Error %d", resp.StatusCode)}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, media.MaxImageBytes+1))
	if err != nil {
		return nil, "", transportError("vision", err)
	}
	if len(data) > media.MaxImageBytes {
		return nil, "", fmt.Errorf("llm: vision: image exceeds %d bytes", media.MaxImageBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func candidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if trimmed := strings.TrimSpace(part.Text); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n\n")
}

func candidateImage(resp *genai.GenerateContentResponse) *genai.Blob {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part.InlineData
		}
	}
	return nil
}

// genaiError maps a genai failure onto the provider error taxonomy.
func genaiError(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiError(op, apiErr, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiError(op, *apiErrPtr, err)
	}
	return transportError(op, err)
}

func apiError(op string, apiErr genai.APIError, err error) *ProviderError {
	if msg := strings.TrimSpace(apiErr.Message); msg != "" {
		return &ProviderError{Op: op, Kind: KindProviderMessage, StatusCode: apiErr.Code, Message: msg, Err: err}
	}
	return &ProviderError{Op: op, Kind: KindHTTPStatus, StatusCode: apiErr.Code, Message: fmt.Sprintf("Error %d", apiErr.Code), Err: err}
}
