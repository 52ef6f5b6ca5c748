// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flaky fails the first failures calls, then succeeds.
type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Complete(_ context.Context, _, _ string) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("upstream unavailable")
	}
	return "ok", nil
}

func shortRetries(t *testing.T) {
	t.Helper()
	prev := retryInitialInterval
	retryInitialInterval = time.Millisecond
	t.Cleanup(func() { retryInitialInterval = prev })
}

func TestWithRetriesRecovers(t *testing.T) {
	shortRetries(t)
	inner := &flaky{failures: 2}
	c := WithRetries(inner, 3)

	out, err := c.Complete(context.Background(), "system", "user")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, inner.calls)
}

func TestWithRetriesExhausted(t *testing.T) {
	shortRetries(t)
	inner := &flaky{failures: 10}
	c := WithRetries(inner, 2)

	_, err := c.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls, "initial attempt plus two retries")
}

func TestWithRetriesDefaultBudget(t *testing.T) {
	shortRetries(t)
	inner := &flaky{failures: 100}
	c := WithRetries(inner, 0)

	_, err := c.Complete(context.Background(), "system", "user")
	require.Error(t, err)
	assert.Equal(t, 4, inner.calls)
}

func TestWithRetriesStopsOnCancel(t *testing.T) {
	shortRetries(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	inner := &flaky{failures: 100}
	c := WithRetries(inner, 5)
	_, err := c.Complete(ctx, "system", "user")
	require.Error(t, err)
	assert.LessOrEqual(t, inner.calls, 1)
}

func TestFuncAdapter(t *testing.T) {
	c := Func(func(_ context.Context, system, user string) (string, error) {
		return system + "|" + user, nil
	})
	out, err := c.Complete(context.Background(), "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a|b", out)
}
