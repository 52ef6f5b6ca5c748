// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm abstracts the Generative AI API used by the assessment and
// drafting components, so tests can supply a mock and callers never depend
// on a concrete provider.
package llm

import "context"

// Client completes a system+user prompt pair and returns the raw response
// text. Implementations handle provider specifics; callers handle parsing.
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Func adapts a function to the Client interface.
type Func func(ctx context.Context, system, user string) (string, error)

// Complete calls f.
func (f Func) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}
