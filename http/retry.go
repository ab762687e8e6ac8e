package http

import (
	"context"
	"time"

	"github.com/fwojciec/docsnap"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// fetchWithRetry calls fetch once plus once per delay until it succeeds.
// ENOTFOUND is final and not retried. onRetry, when set, is called before
// each retry with the upcoming attempt number.
func fetchWithRetry(ctx context.Context, fetch func(context.Context) (string, error), delays []time.Duration, onRetry func(attempt int, err error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		html, err := fetch(ctx)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if attempt == len(delays) || docsnap.ErrorCode(err) == docsnap.ENOTFOUND || ctx.Err() != nil {
			break
		}
		if onRetry != nil {
			onRetry(attempt+2, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", lastErr
}
