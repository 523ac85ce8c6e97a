package analyzer

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// WaitReady probes the model endpoint until it answers, with bounded
// exponential backoff instead of a fixed-interval poll. Returns nil once a
// probe succeeds, or the last probe error when maxWait is spent or the
// context is cancelled.
func WaitReady(ctx context.Context, client ModelClient, maxWait time.Duration) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 500 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = maxWait

	return backoff.Retry(func() error {
		return client.Ping(ctx)
	}, backoff.WithContext(policy, ctx))
}
