package llm

import (
	"context"
	"errors"
	"fmt"
	"net"

	"decorstudio/internal/extract"
)

// ErrorKind classifies a provider failure.
type ErrorKind string

const (
	// KindTransport means the request was not sent or no response arrived.
	KindTransport ErrorKind = "transport"
	// KindHTTPStatus means a non-success status without a readable message.
	KindHTTPStatus ErrorKind = "http_status"
	// KindProviderMessage means the body carried the provider's own error text,
	// whatever the status code.
	KindProviderMessage ErrorKind = "provider_message"
	KindTimeout         ErrorKind = "timeout"
	KindCanceled        ErrorKind = "canceled"
)

// ProviderError is the single failure shape of every Client method.
type ProviderError struct {
	Op         string
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch e.Kind {
	case KindHTTPStatus, KindProviderMessage:
		return fmt.Sprintf("llm: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("llm: %s: %s: %s", e.Op, e.Kind, e.Message)
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

// transportError classifies a failure that happened before a response was read.
func transportError(op string, err error) *ProviderError {
	pe := &ProviderError{Op: op, Kind: KindTransport, Message: err.Error(), Err: err}
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		pe.Kind = KindCanceled
		pe.Message = "request canceled"
	case errors.Is(err, context.DeadlineExceeded):
		pe.Kind = KindTimeout
		pe.Message = "request timed out"
	case errors.As(err, &netErr) && netErr.Timeout():
		pe.Kind = KindTimeout
		pe.Message = "request timed out"
	}
	return pe
}

// statusError classifies a non-success response. The provider's message
// wins over the generic status text when the body carries one.
func statusError(op string, status int, body []byte) *ProviderError {
	if msg, ok := extract.ErrorMessage(body); ok && msg != "" {
		return &ProviderError{Op: op, Kind: KindProviderMessage, StatusCode: status, Message: msg}
	}
	return &ProviderError{Op: op, Kind: KindHTTPStatus, StatusCode: status, Message: fmt.Sprintf("Error %d", status)}
}

// bodyError reports a success status whose body still encodes an error.
func bodyError(op string, status int, body []byte) (*ProviderError, bool) {
	msg, ok := extract.ErrorMessage(body)
	if !ok {
		return nil, false
	}
	if msg == "" {
		msg = "provider returned an error"
	}
	return &ProviderError{Op: op, Kind: KindProviderMessage, StatusCode: status, Message: msg}, true
}

// KindOf returns the provider error kind of err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return "", false
}
