// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryInitialInterval controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var retryInitialInterval = time.Second

const defaultMaxRetries = 3

// retrying wraps a Client with exponential-backoff retries on failure.
type retrying struct {
	inner      Client
	maxRetries uint64
}

// WithRetries returns a Client that retries failed completions with
// exponential backoff. When maxRetries is 0 or negative the default (3)
// is used. A context cancellation stops the retry loop immediately.
func WithRetries(c Client, maxRetries int) Client {
	n := uint64(defaultMaxRetries)
	if maxRetries > 0 {
		n = uint64(maxRetries)
	}
	return &retrying{inner: c, maxRetries: n}
}

func (r *retrying) Complete(ctx context.Context, system, user string) (string, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = retryInitialInterval

	var out string
	op := func() error {
		var err error
		out, err = r.inner.Complete(ctx, system, user)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, r.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return "", err
	}
	return out, nil
}
