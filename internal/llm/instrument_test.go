package llm

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"decorstudio/internal/session"
)

type stubClient struct {
	text  string
	image ImageOutput
	err   error
	calls int
}

func (s *stubClient) ChatComplete(context.Context, []Message, int) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubClient) AnalyzeImage(context.Context, ImageRef, string) (string, error) {
	s.calls++
	return s.text, s.err
}

func (s *stubClient) GenerateImage(context.Context, string, session.Quality) (ImageOutput, error) {
	s.calls++
	return s.image, s.err
}

func TestInstrumentPassesResultsThrough(t *testing.T) {
	stub := &stubClient{text: "hello", image: ImageOutput{URL: "u", MediaKey: "k"}}
	client := Instrument(stub, "openai", zerolog.Nop())

	text, err := client.ChatComplete(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	text, err = client.AnalyzeImage(context.Background(), ImageRef{URL: "x"}, "describe")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	out, err := client.GenerateImage(context.Background(), "p", session.QualityHD)
	require.NoError(t, err)
	assert.Equal(t, stub.image, out)
	assert.Equal(t, 3, stub.calls)
}

func TestInstrumentLogsFailuresWithoutRetrying(t *testing.T) {
	var buf bytes.Buffer
	stub := &stubClient{err: &ProviderError{Op: "image", Kind: KindHTTPStatus, StatusCode: 500, Message: "Error 500"}}
	client := Instrument(stub, "openai", zerolog.New(&buf))

	_, err := client.GenerateImage(context.Background(), "secret prompt text", session.QualityStandard)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, stub.calls)

	assert.Contains(t, buf.String(), `"outcome":"http_status"`)
	assert.Contains(t, buf.String(), `"op":"image"`)
	assert.NotContains(t, buf.String(), "secret prompt text")
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, "success", outcomeOf(nil))
	assert.Equal(t, "timeout", outcomeOf(&ProviderError{Kind: KindTimeout}))
	assert.Equal(t, "error", outcomeOf(assert.AnError))
}
