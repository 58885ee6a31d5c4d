package pipeline

import (
	"context"
	"errors"

	"decorstudio/internal/extract"
	"decorstudio/internal/llm"
	"decorstudio/internal/session"
)

const (
	msgIdeasFailed    = "Something went wrong."
	msgImageFailed    = "Image generation failed"
	msgVisionFailed   = "Vision analysis failed"
	msgMakeoverFailed = "Makeover generation failed"
	msgRemovalFailed  = "Item removal failed"
	msgInvalidFormat  = "Invalid response format"
	msgEmptyResponse  = "Empty response"
	msgTimedOut       = "Request timed out"
	msgCanceled       = "Request canceled"
)

// failure converts err into the user-visible failure of a stage. The
// provider's own message always wins; otherwise fallback is used, or the
// status text when statusText is set.
func failure(stage session.Stage, err error, fallback string, statusText bool) *session.Failure {
	f := &session.Failure{Kind: session.FailureTransport, Stage: stage, Message: fallback}

	var pe *llm.ProviderError
	switch {
	case errors.As(err, &pe):
		f.Status = pe.StatusCode
		switch pe.Kind {
		case llm.KindProviderMessage:
			f.Kind = session.FailureProviderMessage
			f.Message = pe.Message
		case llm.KindHTTPStatus:
			f.Kind = session.FailureHTTPStatus
			if statusText {
				f.Message = pe.Message
			}
		case llm.KindTimeout:
			f.Kind = session.FailureTimeout
			f.Message = msgTimedOut
		case llm.KindCanceled:
			f.Kind = session.FailureCanceled
			f.Message = msgCanceled
		}
	case errors.Is(err, extract.ErrEmptyResult):
		f.Kind = session.FailureExtraction
		f.Message = msgEmptyResponse
	case errors.Is(err, extract.ErrNoArrayFound), errors.Is(err, extract.ErrInvalidJSON):
		f.Kind = session.FailureExtraction
		f.Message = msgInvalidFormat
	case errors.Is(err, extract.ErrMissingImage):
		f.Kind = session.FailureExtraction
	case errors.Is(err, context.DeadlineExceeded):
		f.Kind = session.FailureTimeout
		f.Message = msgTimedOut
	case errors.Is(err, context.Canceled):
		f.Kind = session.FailureCanceled
		f.Message = msgCanceled
	}
	return f
}

// dependency reports that stage could not run because an earlier stage failed.
func dependency(cause *session.Failure, prefix string) *session.Failure {
	return &session.Failure{
		Kind:    session.FailureStageDependency,
		Stage:   cause.Stage,
		Cause:   cause.Kind,
		Status:  cause.Status,
		Message: prefix + ": " + cause.Message,
	}
}
