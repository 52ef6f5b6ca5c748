// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package consensus aggregates independent dimension assessments of one
// content unit into a single weighted score with a variance-derived
// confidence. See docs/ARCHITECTURE.md § Consensus.
package consensus

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/alitto/pond/v2"

	"github.com/pdiddy/transcript-engine/internal/assess"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

// neutralScore substitutes for a dimension whose assessor task failed
// outright rather than returning a degraded assessment.
const neutralScore = 0.5

// Orchestrator fans the configured assessors out over a content unit and
// combines their results. It holds no per-unit state; concurrent AssessUnit
// calls are safe.
type Orchestrator struct {
	assessors map[types.Dimension]assess.Assessor
	weights   map[types.Dimension]float64
	pool      pond.ResultPool[types.DimensionAssessment]
}

// New builds an Orchestrator over the given assessor registry using the
// fixed weight table. poolSize bounds concurrent assessments; 0 means one
// worker per dimension. New fails when a registered dimension has no weight,
// so an incomplete weight table is caught at construction.
func New(assessors map[types.Dimension]assess.Assessor, poolSize int) (*Orchestrator, error) {
	if len(assessors) == 0 {
		return nil, fmt.Errorf("no assessors configured")
	}
	for dim := range assessors {
		if _, ok := assess.Weights[dim]; !ok {
			return nil, fmt.Errorf("dimension %q has no weight", dim)
		}
	}
	if poolSize <= 0 {
		poolSize = len(assessors)
	}
	return &Orchestrator{
		assessors: assessors,
		weights:   assess.Weights,
		pool:      pond.NewResultPool[types.DimensionAssessment](poolSize),
	}, nil
}

// AssessUnit runs every assessor concurrently and aggregates the results.
// A failed or panicking assessor task is replaced by a neutral low-confidence
// substitute; AssessUnit itself never fails for a single dimension's failure.
func (o *Orchestrator) AssessUnit(ctx context.Context, unit types.ContentUnit, spec *types.SectionSpec) types.ConsensusResult {
	dims := make([]types.Dimension, 0, len(o.assessors))
	for dim := range o.assessors {
		dims = append(dims, dim)
	}
	sort.Slice(dims, func(i, j int) bool { return dims[i] < dims[j] })

	tasks := make([]pond.Result[types.DimensionAssessment], len(dims))
	for i, dim := range dims {
		a := o.assessors[dim]
		tasks[i] = o.pool.SubmitErr(func() (types.DimensionAssessment, error) {
			return a.Assess(ctx, unit, spec), nil
		})
	}

	perDimension := make(map[types.Dimension]types.DimensionAssessment, len(dims))
	for i, dim := range dims {
		result, err := tasks[i].Wait()
		if err != nil {
			// Covers panics recovered by the pool.
			result = neutralAssessment(dim, err)
		}
		perDimension[dim] = result
	}

	overall := o.weightedScore(perDimension)
	return types.ConsensusResult{
		OverallScore:        overall,
		ConsensusConfidence: confidenceFromVariance(perDimension, overall),
		PerDimension:        perDimension,
		AllFindings:         flattenFindings(dims, perDimension),
	}
}

// weightedScore computes the weighted mean of per-dimension scores. Absent
// dimensions are excluded from numerator and denominator, so the effective
// weights always renormalize to 1.
func (o *Orchestrator) weightedScore(perDimension map[types.Dimension]types.DimensionAssessment) float64 {
	var num, den float64
	for dim, a := range perDimension {
		w := o.weights[dim]
		num += w * a.Score
		den += w
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// confidenceFromVariance maps the population variance of the scores around
// the overall mean to [0,1]: confidence = max(0, 1 - 2*variance). Identical
// scores give confidence 1. The factor 2 is a carried-over heuristic, not a
// calibrated statistic.
func confidenceFromVariance(perDimension map[types.Dimension]types.DimensionAssessment, overall float64) float64 {
	if len(perDimension) == 0 {
		return 0
	}
	var sum float64
	for _, a := range perDimension {
		d := a.Score - overall
		sum += d * d
	}
	variance := sum / float64(len(perDimension))
	return math.Max(0, 1-2*variance)
}

// flattenFindings collects every dimension's findings in deterministic
// dimension order, deduplicating recommendation strings across findings.
func flattenFindings(dims []types.Dimension, perDimension map[types.Dimension]types.DimensionAssessment) []types.QualityFinding {
	var all []types.QualityFinding
	seen := make(map[string]bool)
	for _, dim := range dims {
		for _, f := range perDimension[dim].Findings {
			var recs []string
			for _, r := range f.Recommendations {
				if !seen[r] {
					seen[r] = true
					recs = append(recs, r)
				}
			}
			f.Recommendations = recs
			all = append(all, f)
		}
	}
	return all
}

// neutralAssessment is the substitute for a dimension whose task failed.
func neutralAssessment(dim types.Dimension, cause error) types.DimensionAssessment {
	return types.DimensionAssessment{
		Dimension:  dim,
		Score:      neutralScore,
		Confidence: types.ConfidenceLow,
		Findings: []types.QualityFinding{{
			Description: fmt.Sprintf("assessment failed for dimension %s: %v", dim, cause),
			Severity:    types.SeverityWarning,
			Category:    types.CategoryTrainingPrinciples,
		}},
	}
}
