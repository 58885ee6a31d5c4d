package llm

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"decorstudio/internal/media"
	"decorstudio/internal/session"
)

var tinyPNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newGeminiTestClient(t *testing.T, status int, body string) (*GeminiClient, *media.MemoryStore) {
	t.Helper()
	return newGeminiRecordingClient(t, status, body, nil)
}

// newGeminiRecordingClient is newGeminiTestClient that also hands every
// request body to seen.
func newGeminiRecordingClient(t *testing.T, status int, body string, seen func([]byte)) (*GeminiClient, *media.MemoryStore) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			seen(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	store, err := media.NewMemoryStore(8, 0, "/media/")
	require.NoError(t, err)
	client, err := NewGeminiClient(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL}, store)
	require.NoError(t, err)
	return client, store
}

func TestGeminiGenerateImageStoresInlineData(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"Here is your room."},{"inlineData":{"mimeType":"image/png","data":"` +
		base64.StdEncoding.EncodeToString(tinyPNG) + `"}}]}}]}`
	client, store := newGeminiTestClient(t, http.StatusOK, body)

	out, err := client.GenerateImage(context.Background(), "a calm bedroom", session.QualityStandard)
	require.NoError(t, err)
	require.NotEmpty(t, out.MediaKey)
	assert.Equal(t, "/media/"+out.MediaKey, out.URL)

	obj, err := store.Open(context.Background(), out.MediaKey)
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestGeminiGenerateImageRequestsWideFrame(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"image/png","data":"` +
		base64.StdEncoding.EncodeToString(tinyPNG) + `"}}]}}]}`
	var (
		mu  sync.Mutex
		req []byte
	)
	client, _ := newGeminiRecordingClient(t, http.StatusOK, body, func(raw []byte) {
		mu.Lock()
		req = raw
		mu.Unlock()
	})

	_, err := client.GenerateImage(context.Background(), "a wide loft", session.QualityHD)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "16:9", gjson.GetBytes(req, "generationConfig.imageConfig.aspectRatio").String())
	assert.Equal(t, "a wide loft", gjson.GetBytes(req, "contents.0.parts.0.text").String())
}

func TestGeminiChatCompleteJoinsTextParts(t *testing.T) {
	body := `{"candidates":[{"content":{"role":"model","parts":[{"text":"[{\"title\":\"a\"}]"}]}}]}`
	client, _ := newGeminiTestClient(t, http.StatusOK, body)

	text, err := client.ChatComplete(context.Background(), []Message{
		{Role: RoleSystem, Content: "json only"},
		{Role: RoleUser, Content: "ideas"},
	}, 1500)
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"a"}]`, text)
}

func TestGeminiChatCompleteRequiresUserTurn(t *testing.T) {
	client, _ := newGeminiTestClient(t, http.StatusOK, `{}`)
	_, err := client.ChatComplete(context.Background(), []Message{{Role: RoleSystem, Content: "only system"}}, 10)
	require.Error(t, err)
}

func TestGeminiAPIErrorMapsToProviderMessage(t *testing.T) {
	client, _ := newGeminiTestClient(t, http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`)

	_, err := client.GenerateImage(context.Background(), "p", session.QualityHD)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindProviderMessage, pe.Kind)
	assert.Equal(t, 400, pe.StatusCode)
	assert.Equal(t, "API key not valid", pe.Message)
}

func TestGeminiResolveDataURL(t *testing.T) {
	client, _ := newGeminiTestClient(t, http.StatusOK, `{}`)

	data, mime, err := client.resolve(context.Background(), "data:image/png;base64,"+base64.StdEncoding.EncodeToString(tinyPNG))
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, data)
	assert.Equal(t, "image/png", mime)

	_, _, err = client.resolve(context.Background(), "data:image/png,raw")
	require.Error(t, err)
}

func TestGeminiResolveRemoteURL(t *testing.T) {
	img := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(tinyPNG)
	}))
	t.Cleanup(img.Close)
	client, _ := newGeminiTestClient(t, http.StatusOK, `{}`)

	data, mime, err := client.resolve(context.Background(), img.URL+"/room.png")
	require.NoError(t, err)
	assert.Equal(t, tinyPNG, data)
	assert.Equal(t, "image/png", mime)
}

func TestGeminiResolveRemoteStatus(t *testing.T) {
	img := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(img.Close)
	client, _ := newGeminiTestClient(t, http.StatusOK, `{}`)

	_, _, err := client.resolve(context.Background(), img.URL+"/gone.png")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindHTTPStatus, kind)
}
