// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package consensus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-engine/internal/assess"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

// stubAssessor returns a fixed assessment, or panics when told to.
type stubAssessor struct {
	dim    types.Dimension
	score  float64
	panics bool
	result *types.DimensionAssessment
}

func (s *stubAssessor) Dimension() types.Dimension { return s.dim }

func (s *stubAssessor) Assess(_ context.Context, _ types.ContentUnit, _ *types.SectionSpec) types.DimensionAssessment {
	if s.panics {
		panic("assessor exploded")
	}
	if s.result != nil {
		return *s.result
	}
	return types.DimensionAssessment{
		Dimension:  s.dim,
		Score:      s.score,
		Confidence: types.ConfidenceHigh,
	}
}

func stubRegistry(scores map[types.Dimension]float64) map[types.Dimension]assess.Assessor {
	registry := make(map[types.Dimension]assess.Assessor, len(scores))
	for dim, score := range scores {
		registry[dim] = &stubAssessor{dim: dim, score: score}
	}
	return registry
}

func uniformScores(score float64) map[types.Dimension]float64 {
	scores := make(map[types.Dimension]float64, len(types.Dimensions))
	for _, dim := range types.Dimensions {
		scores[dim] = score
	}
	return scores
}

var testUnit = types.ContentUnit{ID: "s1", Text: "content under assessment"}

func TestIdenticalScores(t *testing.T) {
	o, err := New(stubRegistry(uniformScores(0.9)), 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)

	assert.InDelta(t, 0.9, result.OverallScore, 1e-9)
	assert.InDelta(t, 1.0, result.ConsensusConfidence, 1e-9)
	assert.Len(t, result.PerDimension, len(types.Dimensions))
}

func TestWeightedMean(t *testing.T) {
	scores := map[types.Dimension]float64{
		types.DimSemanticAlignment:    1.0, // weight 0.25
		types.DimPedagogicalQuality:   0.8, // weight 0.25
		types.DimGroundedness:         0.6, // weight 0.20
		types.DimContentDepth:         0.4, // weight 0.15
		types.DimGuidelinesCompliance: 0.2, // weight 0.15
	}
	o, err := New(stubRegistry(scores), 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)

	want := 0.25*1.0 + 0.25*0.8 + 0.20*0.6 + 0.15*0.4 + 0.15*0.2
	assert.InDelta(t, want, result.OverallScore, 1e-9)
	assert.GreaterOrEqual(t, result.ConsensusConfidence, 0.0)
	assert.LessOrEqual(t, result.ConsensusConfidence, 1.0)
}

func TestMissingDimensionRenormalizes(t *testing.T) {
	// Only two dimensions registered: weights renormalize over 0.25+0.20.
	scores := map[types.Dimension]float64{
		types.DimSemanticAlignment: 1.0,
		types.DimGroundedness:      0.5,
	}
	o, err := New(stubRegistry(scores), 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)

	want := (0.25*1.0 + 0.20*0.5) / (0.25 + 0.20)
	assert.InDelta(t, want, result.OverallScore, 1e-9)
}

func TestPanickingAssessorGetsNeutralSubstitute(t *testing.T) {
	registry := stubRegistry(uniformScores(0.9))
	registry[types.DimGroundedness] = &stubAssessor{dim: types.DimGroundedness, panics: true}

	o, err := New(registry, 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)

	sub := result.PerDimension[types.DimGroundedness]
	assert.Equal(t, 0.5, sub.Score)
	assert.Equal(t, types.ConfidenceLow, sub.Confidence)
	require.Len(t, sub.Findings, 1)
	assert.Contains(t, sub.Findings[0].Description, "assessment failed")

	// The other dimensions are unaffected and the result is complete.
	assert.Len(t, result.PerDimension, len(types.Dimensions))
	assert.Equal(t, 0.9, result.PerDimension[types.DimContentDepth].Score)
}

func TestConfidenceDropsWithDivergence(t *testing.T) {
	// Maximally divergent scores: overall 0.5, variance 0.25, confidence 0.5.
	scores := map[types.Dimension]float64{
		types.DimSemanticAlignment:  1.0,
		types.DimPedagogicalQuality: 0.0,
	}
	o, err := New(stubRegistry(scores), 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)
	assert.InDelta(t, 0.5, result.ConsensusConfidence, 1e-9)
	assert.GreaterOrEqual(t, result.ConsensusConfidence, 0.0)
}

func TestFindingsFlattenedAndRecommendationsDeduped(t *testing.T) {
	mk := func(dim types.Dimension, recs ...string) *types.DimensionAssessment {
		return &types.DimensionAssessment{
			Dimension:  dim,
			Score:      0.7,
			Confidence: types.ConfidenceHigh,
			Findings: []types.QualityFinding{{
				Description:     "finding from " + string(dim),
				Severity:        types.SeverityWarning,
				Category:        types.CategoryTrainingPrinciples,
				Recommendations: recs,
			}},
		}
	}
	registry := map[types.Dimension]assess.Assessor{
		types.DimPedagogicalQuality: &stubAssessor{
			dim:    types.DimPedagogicalQuality,
			result: mk(types.DimPedagogicalQuality, "add examples", "add questions"),
		},
		types.DimGuidelinesCompliance: &stubAssessor{
			dim:    types.DimGuidelinesCompliance,
			result: mk(types.DimGuidelinesCompliance, "add examples"),
		},
	}
	o, err := New(registry, 0)
	require.NoError(t, err)

	result := o.AssessUnit(context.Background(), testUnit, nil)
	require.Len(t, result.AllFindings, 2)

	var all []string
	for _, f := range result.AllFindings {
		all = append(all, f.Recommendations...)
	}
	assert.ElementsMatch(t, []string{"add examples", "add questions"}, all)
}

func TestDeterministicGivenDeterministicAssessors(t *testing.T) {
	o, err := New(stubRegistry(uniformScores(0.42)), 2)
	require.NoError(t, err)

	first := o.AssessUnit(context.Background(), testUnit, nil)
	for i := 0; i < 10; i++ {
		next := o.AssessUnit(context.Background(), testUnit, nil)
		assert.Equal(t, first, next)
	}
}

func TestNewRejectsUnweightedDimension(t *testing.T) {
	registry := map[types.Dimension]assess.Assessor{
		types.Dimension("vibes"): &stubAssessor{dim: "vibes", score: 1.0},
	}
	_, err := New(registry, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no weight")
}

func TestNewRejectsEmptyRegistry(t *testing.T) {
	_, err := New(nil, 0)
	require.Error(t, err)
}
