// Package inference turns stored observation payloads into clinical
// interpretation text by calling a hosted chat-completion model.
package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUpstream matches every failure caused by the model endpoint.
	ErrUpstream = errors.New("model upstream failure")
	// ErrEmptyCompletion is returned when the model answered without content.
	ErrEmptyCompletion = fmt.Errorf("%w: empty completion", ErrUpstream)
)

// Interpreter produces interpretation text for one input payload.
type Interpreter interface {
	Interpret(ctx context.Context, text string) (string, error)
}

// InterpreterFunc adapts a function to Interpreter.
type InterpreterFunc func(ctx context.Context, text string) (string, error)

func (f InterpreterFunc) Interpret(ctx context.Context, text string) (string, error) {
	return f(ctx, text)
}

// UpstreamError is a non-2xx answer from the model endpoint.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("model upstream %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Timeout reports whether the endpoint itself gave up on the request.
func (e *UpstreamError) Timeout() bool {
	return e.Status == http.StatusRequestTimeout || e.Status == http.StatusGatewayTimeout
}

// transportError wraps failures to reach the endpoint at all.
type transportError struct{ err error }

func (e *transportError) Error() string        { return "model transport: " + e.err.Error() }
func (e *transportError) Unwrap() error        { return e.err }
func (e *transportError) Is(target error) bool { return target == ErrUpstream }

// Retryable reports whether err is worth another attempt: transport
// failures, 408, 429 and 5xx answers.
func Retryable(err error) bool {
	var te *transportError
	if errors.As(err, &te) {
		return true
	}
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue.Status == http.StatusRequestTimeout ||
			ue.Status == http.StatusTooManyRequests ||
			ue.Status/100 == 5
	}
	return false
}
