package inference

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
)

// GuardConfig bounds calls to the model endpoint. Zero values disable the
// corresponding limit; MaxRetries 0 means a single attempt.
type GuardConfig struct {
	Timeout       time.Duration
	MaxConcurrent int64
	MaxRetries    int
	Backoff       time.Duration
}

// Guard wraps an Interpreter with a per-call deadline, a concurrency
// ceiling and optional retries for retryable upstream errors. The deadline
// covers queueing for a slot and every attempt.
type Guard struct {
	next Interpreter
	cfg  GuardConfig
	sem  *semaphore.Weighted
}

func NewGuard(next Interpreter, cfg GuardConfig) *Guard {
	g := &Guard{next: next, cfg: cfg}
	if cfg.MaxConcurrent > 0 {
		g.sem = semaphore.NewWeighted(cfg.MaxConcurrent)
	}
	return g
}

func (g *Guard) Interpret(ctx context.Context, text string) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	if g.sem != nil {
		if err := g.sem.Acquire(ctx, 1); err != nil {
			return "", err
		}
		defer g.sem.Release(1)
	}

	for attempt := 0; ; attempt++ {
		out, err := g.next.Interpret(ctx, text)
		if err == nil {
			return out, nil
		}
		if attempt >= g.cfg.MaxRetries || !Retryable(err) {
			return "", err
		}

		t := time.NewTimer(g.cfg.Backoff << attempt)
		select {
		case <-ctx.Done():
			t.Stop()
			return "", ctx.Err()
		case <-t.C:
		}
	}
}
