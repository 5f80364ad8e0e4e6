// Package retry runs storage calls under an exponential backoff policy.
package retry

import (
	"context"
	"errors"
	"time"

	"github.com/Altinity/site-sync/internal/storage"
	"github.com/cenkalti/backoff/v4"
)

// InitialInterval is the first wait between attempts. Tests shrink it.
var InitialInterval = 500 * time.Millisecond

// Notify is called after every failed attempt that will be retried.
type Notify func(err error, wait time.Duration)

// Permanent reports whether err should stop retrying immediately. Cancelled
// contexts and missing objects never succeed on a second try.
func Permanent(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, storage.ErrNotFound)
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if Permanent(err) {
		return backoff.Permanent(err)
	}

	return err
}

// Do runs op at most retries+1 times.
func Do(ctx context.Context, retries uint64, notify Notify, op func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(InitialInterval),
	), retries), ctx)

	return backoff.RetryNotify(func() error {
		return classify(op())
	}, policy, func(err error, dur time.Duration) {
		if notify != nil {
			notify(err, dur)
		}
	})
}
