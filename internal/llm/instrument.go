package llm

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"decorstudio/internal/metrics"
	"decorstudio/internal/session"
)

const tracerName = "decorstudio/llm"

// Instrument decorates a client with metrics, tracing and logging. It adds
// no retries and never alters results.
func Instrument(next Client, provider string, logger zerolog.Logger) Client {
	return &instrumented{
		next:     next,
		provider: provider,
		logger:   logger.With().Str("component", "llm").Str("provider", provider).Logger(),
	}
}

type instrumented struct {
	next     Client
	provider string
	logger   zerolog.Logger
}

func (c *instrumented) ChatComplete(ctx context.Context, messages []Message, maxTokens int) (text string, err error) {
	ctx, done := c.start(ctx, "chat", attribute.Int("llm.max_tokens", maxTokens), attribute.Int("llm.messages", len(messages)))
	defer func() { done(err, attribute.Int("llm.response_chars", len(text))) }()
	return c.next.ChatComplete(ctx, messages, maxTokens)
}

func (c *instrumented) AnalyzeImage(ctx context.Context, image ImageRef, instruction string) (text string, err error) {
	ctx, done := c.start(ctx, "vision", attribute.Bool("llm.image_inline", image.Inline()))
	defer func() { done(err, attribute.Int("llm.response_chars", len(text))) }()
	return c.next.AnalyzeImage(ctx, image, instruction)
}

func (c *instrumented) GenerateImage(ctx context.Context, prompt string, quality session.Quality) (out ImageOutput, err error) {
	ctx, done := c.start(ctx, "image", attribute.String("llm.quality", string(quality)), attribute.Int("llm.prompt_chars", len(prompt)))
	defer func() { done(err, attribute.Bool("llm.stored_locally", out.MediaKey != "")) }()
	return c.next.GenerateImage(ctx, prompt, quality)
}

func (c *instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error, ...attribute.KeyValue)) {
	started := time.Now()
	attrs = append(attrs, attribute.String("llm.provider", c.provider), attribute.String("llm.op", op))
	ctx, span := otel.Tracer(tracerName).Start(ctx, "llm."+op, trace.WithAttributes(attrs...))

	return ctx, func(err error, end ...attribute.KeyValue) {
		elapsed := time.Since(started)
		outcome := outcomeOf(err)
		span.SetAttributes(end...)
		span.SetAttributes(attribute.String("llm.outcome", outcome))

		metrics.ProviderRequestsTotal.WithLabelValues(op, outcome).Inc()
		metrics.ProviderRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
			c.logger.Warn().Err(err).Str("op", op).Str("outcome", outcome).Dur("duration", elapsed).Msg("provider call failed")
		} else {
			span.SetStatus(codes.Ok, "")
			c.logger.Debug().Str("op", op).Dur("duration", elapsed).Msg("provider call succeeded")
		}
		span.End()
	}
}

func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return string(pe.Kind)
	}
	return "error"
}
