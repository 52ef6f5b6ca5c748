// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"fmt"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

// fallback builds the degraded assessment used when the model path fails.
// The score comes from the dimension's deterministic heuristic; confidence
// is always low, and one INFO finding records the degradation. This is the
// only place degraded assessments are constructed.
func fallback(dim types.Dimension, unit types.ContentUnit, spec *types.SectionSpec, cause error) types.DimensionAssessment {
	score, findings := Heuristic(dim, unit, spec)
	findings = append(findings, types.QualityFinding{
		Description: fmt.Sprintf("model assessment unavailable, degraded to heuristic mode: %v", cause),
		Severity:    types.SeverityInfo,
		Category:    defaultCategory(dim),
	})
	return types.DimensionAssessment{
		Dimension:  dim,
		Score:      score,
		Confidence: types.ConfidenceLow,
		Findings:   findings,
	}
}
