// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assess evaluates content units along fixed quality dimensions.
// Each dimension has one Assessor backed by the AI model with a
// deterministic heuristic fallback, so assessment never fails upward.
// See docs/ARCHITECTURE.md § Quality Assessment.
package assess

import (
	"context"

	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Assessor evaluates one content unit along one quality dimension. Assess
// never returns an error: when the model path fails it degrades to a
// conservative heuristic assessment with low confidence.
type Assessor interface {
	Dimension() types.Dimension
	Assess(ctx context.Context, unit types.ContentUnit, spec *types.SectionSpec) types.DimensionAssessment
}

// Weights is the fixed per-dimension weight table used for consensus
// aggregation. Weights sum to 1.0 across all dimensions; dimensions absent
// from a result are excluded from both numerator and denominator.
var Weights = map[types.Dimension]float64{
	types.DimSemanticAlignment:    0.25,
	types.DimPedagogicalQuality:   0.25,
	types.DimGroundedness:         0.20,
	types.DimContentDepth:         0.15,
	types.DimGuidelinesCompliance: 0.15,
}

// assessor is the shared implementation behind every dimension: try the
// model, fall back to the dimension's heuristic on any failure.
type assessor struct {
	dim   types.Dimension
	model llm.Client
}

func (a *assessor) Dimension() types.Dimension { return a.dim }

func (a *assessor) Assess(ctx context.Context, unit types.ContentUnit, spec *types.SectionSpec) types.DimensionAssessment {
	if a.model == nil {
		score, findings := Heuristic(a.dim, unit, spec)
		return types.DimensionAssessment{
			Dimension:  a.dim,
			Score:      score,
			Confidence: types.ConfidenceMedium,
			Findings:   findings,
		}
	}

	result, err := assessWithModel(ctx, a.model, a.dim, unit, spec)
	if err != nil {
		return fallback(a.dim, unit, spec, err)
	}
	return result
}

// NewRegistry builds the closed set of dimension assessors. A nil model
// yields heuristic-only assessors; tests and the basic assessment mode use
// this to stay deterministic and offline.
func NewRegistry(model llm.Client) map[types.Dimension]Assessor {
	registry := make(map[types.Dimension]Assessor, len(types.Dimensions))
	for _, dim := range types.Dimensions {
		registry[dim] = &assessor{dim: dim, model: model}
	}
	return registry
}
