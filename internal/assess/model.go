// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

// modelResponse is the JSON shape the assessment prompt asks the model for.
type modelResponse struct {
	Score      float64        `json:"score"`
	Confidence string         `json:"confidence"`
	Findings   []modelFinding `json:"findings"`
}

type modelFinding struct {
	Description     string   `json:"description"`
	Severity        string   `json:"severity"`
	Category        string   `json:"category"`
	Evidence        []string `json:"evidence"`
	Recommendations []string `json:"recommendations"`
}

// dimensionInstructions describes each dimension to the model.
var dimensionInstructions = map[types.Dimension]string{
	types.DimSemanticAlignment:    "Judge how well the content matches the section's declared key topics and learning objectives.",
	types.DimPedagogicalQuality:   "Judge instructional quality: structure, engagement, use of questions and examples.",
	types.DimGroundedness:         "Judge whether claims are supported; flag absolute or unsupported statements.",
	types.DimContentDepth:         "Judge whether depth and complexity match the target difficulty level.",
	types.DimGuidelinesCompliance: "Judge structural and formatting compliance: paragraphing, repetition, section length.",
}

var validSeverities = map[string]types.Severity{
	"INFO":    types.SeverityInfo,
	"WARNING": types.SeverityWarning,
	"ERROR":   types.SeverityError,
}

var validConfidences = map[string]types.Confidence{
	"low":       types.ConfidenceLow,
	"medium":    types.ConfidenceMedium,
	"high":      types.ConfidenceHigh,
	"very_high": types.ConfidenceVeryHigh,
}

// assessWithModel runs the model path for one dimension. Any failure — call
// error, unparseable response, out-of-range values — is returned so the
// caller can degrade to the heuristic fallback in one place.
func assessWithModel(ctx context.Context, model llm.Client, dim types.Dimension, unit types.ContentUnit, spec *types.SectionSpec) (types.DimensionAssessment, error) {
	system := fmt.Sprintf(`You are a training-content quality assessor for the %q dimension.
%s
Respond with a single JSON object:
{"score": <float 0..1, 1.0 = no issues>, "confidence": "low|medium|high|very_high",
 "findings": [{"description": "...", "severity": "INFO|WARNING|ERROR",
   "category": "<misconduct category>", "evidence": ["..."], "recommendations": ["..."]}]}`,
		dim, dimensionInstructions[dim])

	raw, err := model.Complete(ctx, system, assessmentPrompt(unit, spec))
	if err != nil {
		return types.DimensionAssessment{}, fmt.Errorf("model call: %w", err)
	}

	var resp modelResponse
	if err := json.Unmarshal([]byte(extractJSON(raw)), &resp); err != nil {
		return types.DimensionAssessment{}, fmt.Errorf("parsing model response: %w", err)
	}
	if resp.Score < 0 || resp.Score > 1 {
		return types.DimensionAssessment{}, fmt.Errorf("model score %f out of range [0,1]", resp.Score)
	}

	confidence, ok := validConfidences[resp.Confidence]
	if !ok {
		confidence = types.ConfidenceMedium
	}

	result := types.DimensionAssessment{
		Dimension:  dim,
		Score:      resp.Score,
		Confidence: confidence,
	}
	for i, f := range resp.Findings {
		severity, ok := validSeverities[f.Severity]
		if !ok {
			return types.DimensionAssessment{}, fmt.Errorf("finding %d: invalid severity %q", i, f.Severity)
		}
		category := f.Category
		if _, known := types.TierOf(category); !known {
			// Unknown tags collapse onto the closest fixed category.
			category = defaultCategory(dim)
		}
		result.Findings = append(result.Findings, types.QualityFinding{
			Description:     f.Description,
			Severity:        severity,
			Category:        category,
			Evidence:        f.Evidence,
			Recommendations: f.Recommendations,
		})
	}
	return result, nil
}

// assessmentPrompt renders the unit and its section spec for the model.
func assessmentPrompt(unit types.ContentUnit, spec *types.SectionSpec) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Section %s", unit.ID)
	if unit.Title != "" {
		fmt.Fprintf(&b, ": %s", unit.Title)
	}
	b.WriteString("\n")
	if spec != nil {
		if len(spec.KeyTopics) > 0 {
			fmt.Fprintf(&b, "Key topics: %s\n", strings.Join(spec.KeyTopics, "; "))
		}
		if len(spec.LearningObjectives) > 0 {
			fmt.Fprintf(&b, "Learning objectives: %s\n", strings.Join(spec.LearningObjectives, "; "))
		}
		if spec.DifficultyLevel != "" {
			fmt.Fprintf(&b, "Difficulty level: %s\n", spec.DifficultyLevel)
		}
	}
	fmt.Fprintf(&b, "\nContent:\n%s\n", unit.Text)
	return b.String()
}

// defaultCategory maps a dimension to the misconduct category its findings
// most naturally belong to.
func defaultCategory(dim types.Dimension) string {
	switch dim {
	case types.DimSemanticAlignment:
		return types.CategorySyllabusAlignment
	case types.DimGroundedness:
		return types.CategoryGroundedness
	case types.DimContentDepth:
		return types.CategoryInadequateLevel
	case types.DimGuidelinesCompliance:
		return types.CategoryDurationViolation
	default:
		return types.CategoryTrainingPrinciples
	}
}

// extractJSON strips Markdown code fences and surrounding prose so a JSON
// object embedded in a chat response can be unmarshaled.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}
