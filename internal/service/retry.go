package service

import (
	"context"
	"time"
)

// RetryPolicy bounds inline retries of secondary writes.
type RetryPolicy struct {
	Attempts int           // total tries, including the first
	Backoff  time.Duration // wait before the second try; doubles after each failure
}

// DefaultRetry is used when a zero policy is configured.
var DefaultRetry = RetryPolicy{Attempts: 3, Backoff: 50 * time.Millisecond}

// Do calls fn until it succeeds, the attempts run out or ctx ends.  The
// last error is returned.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	if p.Attempts < 1 {
		p = DefaultRetry
	}
	wait := p.Backoff
	var err error
	for i := 0; i < p.Attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == p.Attempts-1 {
			break
		}
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
		wait *= 2
	}
	return err
}
