package inference

import (
	"context"
	"errors"
	"time"
)

// Outcomes reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeTimeout  = "timeout"
	OutcomeUpstream = "upstream_error"
	OutcomeCanceled = "canceled"
	OutcomeError    = "error"
)

// Observer records one model call.
type Observer interface {
	ObserveInference(outcome string, elapsed time.Duration)
}

type instrumented struct {
	next Interpreter
	obs  Observer
}

// Instrument reports every call made through next to obs.
func Instrument(next Interpreter, obs Observer) Interpreter {
	return &instrumented{next: next, obs: obs}
}

func (i *instrumented) Interpret(ctx context.Context, text string) (string, error) {
	start := time.Now()
	out, err := i.next.Interpret(ctx, text)
	i.obs.ObserveInference(Outcome(err), time.Since(start))
	return out, err
}

// Outcome classifies a call result.
func Outcome(err error) string {
	var ue *UpstreamError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &ue) && ue.Timeout():
		return OutcomeTimeout
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.Is(err, ErrUpstream):
		return OutcomeUpstream
	default:
		return OutcomeError
	}
}
