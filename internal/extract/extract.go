package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"decorstudio/internal/session"
)

var (
	ErrNoArrayFound = errors.New("extract: no JSON array in response")
	ErrInvalidJSON  = errors.New("extract: invalid JSON")
	ErrEmptyResult  = errors.New("extract: empty result")
	ErrMissingImage = errors.New("extract: response carries no image")
)

const (
	textPath     = "choices.0.message.content"
	imageURLPath = "data.0.url"
	errorPath    = "error.message"
)

type rawIdea struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Products    []string `json:"products"`
}

// Ideas pulls the design ideas out of free-form model output. The array is
// taken greedily from the first '[' to the last ']', so prose around it is
// ignored. A '[' without a closing bracket is treated as malformed JSON.
// Returned ideas carry no ID.
func Ideas(text string) ([]session.DesignIdea, error) {
	start := strings.Index(text, "[")
	if start < 0 {
		return nil, ErrNoArrayFound
	}
	end := strings.LastIndex(text, "]")
	if end < start {
		return nil, fmt.Errorf("%w: unterminated array", ErrInvalidJSON)
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyResult
	}

	ideas := make([]session.DesignIdea, 0, len(items))
	for i, item := range items {
		var raw rawIdea
		if err := json.Unmarshal(item, &raw); err != nil {
			return nil, fmt.Errorf("%w: idea %d: %v", ErrInvalidJSON, i, err)
		}
		if raw.Products == nil {
			raw.Products = []string{}
		}
		ideas = append(ideas, session.DesignIdea{
			Title:       strings.TrimSpace(raw.Title),
			Description: strings.TrimSpace(raw.Description),
			Products:    raw.Products,
		})
	}
	return ideas, nil
}

// ImageURL reads the first image URL of an image generation response.
func ImageURL(body []byte) (string, error) {
	url := gjson.GetBytes(body, imageURLPath).String()
	if strings.TrimSpace(url) == "" {
		return "", ErrMissingImage
	}
	return url, nil
}

// Text reads the first choice of a chat completion response. A missing
// choice yields the empty string.
func Text(body []byte) string {
	return gjson.GetBytes(body, textPath).String()
}

// ErrorMessage reads the provider's error message from a response body.
// The second result reports whether the body carries an error object at all.
func ErrorMessage(body []byte) (string, bool) {
	if !gjson.ValidBytes(body) {
		return "", false
	}
	obj := gjson.GetBytes(body, "error")
	if !obj.Exists() || obj.Type == gjson.Null {
		return "", false
	}
	if msg := strings.TrimSpace(gjson.GetBytes(body, errorPath).String()); msg != "" {
		return msg, true
	}
	if obj.Type == gjson.String {
		return strings.TrimSpace(obj.String()), true
	}
	return "", true
}
