// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package assess

import (
	"fmt"
	"strings"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Word-count thresholds for the content-depth heuristic.
const (
	// minWordCount is the hard floor below which a unit is inadequate.
	minWordCount = 10

	defaultTargetWords = 200
)

// difficultyTargets maps a syllabus difficulty level to the expected word
// count for one section.
var difficultyTargets = map[string]int{
	"beginner":     150,
	"intermediate": 250,
	"advanced":     350,
}

// absolutePhrases flags unsupported-claim language for the groundedness
// heuristic.
var absolutePhrases = []string{
	"always",
	"never",
	"proven",
	"guaranteed",
	"everyone knows",
	"obviously",
	"without exception",
	"undeniably",
	"100%",
}

// examplePhrases signals the presence of worked examples.
var examplePhrases = []string{
	"for example",
	"for instance",
	"e.g.",
	"example:",
	"consider",
}

// Heuristic runs the deterministic pattern/length checks for one dimension
// and returns the score plus any findings. It is the single implementation
// behind degraded assessments and the basic (non-consensus) finalizer path.
func Heuristic(dim types.Dimension, unit types.ContentUnit, spec *types.SectionSpec) (float64, []types.QualityFinding) {
	switch dim {
	case types.DimSemanticAlignment:
		return alignmentHeuristic(unit, spec)
	case types.DimPedagogicalQuality:
		return pedagogyHeuristic(unit)
	case types.DimGroundedness:
		return groundednessHeuristic(unit)
	case types.DimContentDepth:
		return depthHeuristic(unit, spec)
	case types.DimGuidelinesCompliance:
		return complianceHeuristic(unit)
	}
	// Unknown dimension: neutral score, nothing to report.
	return 0.5, nil
}

// alignmentHeuristic measures key-topic and objective coverage by keyword
// presence. Without a section spec there is nothing to compare against.
func alignmentHeuristic(unit types.ContentUnit, spec *types.SectionSpec) (float64, []types.QualityFinding) {
	if spec == nil || (len(spec.KeyTopics) == 0 && len(spec.LearningObjectives) == 0) {
		return 0.7, nil
	}

	text := strings.ToLower(unit.Text)
	var missing []string
	total := 0
	covered := 0
	for _, topic := range spec.KeyTopics {
		total++
		if topicCovered(text, topic) {
			covered++
		} else {
			missing = append(missing, topic)
		}
	}
	for _, obj := range spec.LearningObjectives {
		total++
		if topicCovered(text, obj) {
			covered++
		}
	}

	ratio := float64(covered) / float64(total)
	var findings []types.QualityFinding
	switch {
	case ratio < 0.2:
		findings = append(findings, types.QualityFinding{
			Description:     fmt.Sprintf("content covers almost none of the declared topics (%d of %d)", covered, total),
			Severity:        types.SeverityError,
			Category:        types.CategorySyllabusAlignment,
			Evidence:        missing,
			Recommendations: []string{"rewrite the section to address the syllabus key topics"},
		})
	case ratio < 0.6:
		findings = append(findings, types.QualityFinding{
			Description:     fmt.Sprintf("content misses declared topics (%d of %d covered)", covered, total),
			Severity:        types.SeverityWarning,
			Category:        types.CategorySyllabusAlignment,
			Evidence:        missing,
			Recommendations: []string{"cover the missing key topics"},
		})
	}
	return ratio, findings
}

// topicCovered reports whether any word of the topic appears in the text.
func topicCovered(lowerText, topic string) bool {
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		word = strings.Trim(word, ".,;:!?")
		if len(word) < 4 {
			continue
		}
		if strings.Contains(lowerText, word) {
			return true
		}
	}
	return false
}

// pedagogyHeuristic checks structure and engagement signals: questions,
// examples, and visible structure.
func pedagogyHeuristic(unit types.ContentUnit) (float64, []types.QualityFinding) {
	score := 1.0
	var findings []types.QualityFinding
	text := strings.ToLower(unit.Text)

	if !strings.Contains(unit.Text, "?") {
		score -= 0.15
		findings = append(findings, types.QualityFinding{
			Description:     "no questions found; content does not prompt learner reflection",
			Severity:        types.SeverityWarning,
			Category:        types.CategoryTrainingPrinciples,
			Recommendations: []string{"add reflective or knowledge-check questions"},
		})
	}
	if !containsAny(text, examplePhrases) {
		score -= 0.15
		findings = append(findings, types.QualityFinding{
			Description:     "no worked examples found",
			Severity:        types.SeverityWarning,
			Category:        types.CategoryTrainingPrinciples,
			Recommendations: []string{"illustrate key points with concrete examples"},
		})
	}
	if !strings.Contains(unit.Text, "\n\n") && !strings.Contains(unit.Text, "\n#") {
		score -= 0.2
		findings = append(findings, types.QualityFinding{
			Description:     "content lacks visible structure (no paragraphs or headings)",
			Severity:        types.SeverityWarning,
			Category:        types.CategoryTrainingPrinciples,
			Recommendations: []string{"break the content into paragraphs or subsections"},
		})
	}
	return clamp01(score), findings
}

// groundednessHeuristic flags absolute and unsupported-claim language.
func groundednessHeuristic(unit types.ContentUnit) (float64, []types.QualityFinding) {
	text := strings.ToLower(unit.Text)
	var hits []string
	for _, phrase := range absolutePhrases {
		if n := strings.Count(text, phrase); n > 0 {
			hits = append(hits, fmt.Sprintf("%q (%d)", phrase, n))
		}
	}
	if len(hits) == 0 {
		return 1.0, nil
	}

	score := clamp01(1.0 - 0.1*float64(len(hits)))
	severity := types.SeverityWarning
	if len(hits) >= 5 {
		severity = types.SeverityError
	}
	finding := types.QualityFinding{
		Description:     fmt.Sprintf("absolute or unsupported-claim language found (%d distinct phrases)", len(hits)),
		Severity:        severity,
		Category:        types.CategoryGroundedness,
		Evidence:        hits,
		Recommendations: []string{"qualify absolute claims or cite supporting material"},
	}
	return score, []types.QualityFinding{finding}
}

// depthHeuristic compares word count and sentence complexity against the
// target difficulty level.
func depthHeuristic(unit types.ContentUnit, spec *types.SectionSpec) (float64, []types.QualityFinding) {
	words := len(strings.Fields(unit.Text))

	if words < minWordCount {
		return 0.1, []types.QualityFinding{{
			Description:     fmt.Sprintf("content is %d words, below the %d-word minimum", words, minWordCount),
			Severity:        types.SeverityError,
			Category:        types.CategoryInadequateLevel,
			Recommendations: []string{"draft substantive content for this section"},
		}}
	}

	target := defaultTargetWords
	if spec != nil {
		if t, ok := difficultyTargets[strings.ToLower(spec.DifficultyLevel)]; ok {
			target = t
		}
	}

	ratio := float64(words) / float64(target)
	if ratio > 1 {
		ratio = 1
	}
	score := 0.3 + 0.7*ratio

	var findings []types.QualityFinding
	if words < target/2 {
		findings = append(findings, types.QualityFinding{
			Description:     fmt.Sprintf("content is %d words against a target of ~%d for this level", words, target),
			Severity:        types.SeverityWarning,
			Category:        types.CategoryInadequateLevel,
			Recommendations: []string{"expand the section to match the target depth"},
		})
	}
	return clamp01(score), findings
}

// complianceHeuristic checks structural and formatting guidelines:
// repeated paragraphs and overlong unstructured sections.
func complianceHeuristic(unit types.ContentUnit) (float64, []types.QualityFinding) {
	score := 1.0
	var findings []types.QualityFinding

	paragraphs := strings.Split(unit.Text, "\n\n")
	seen := make(map[string]bool, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if len(p) < 40 {
			continue
		}
		if seen[p] {
			score -= 0.2
			findings = append(findings, types.QualityFinding{
				Description:     "verbatim repeated paragraph found",
				Severity:        types.SeverityWarning,
				Category:        types.CategoryContentRepetition,
				Evidence:        []string{truncate(p, 80)},
				Recommendations: []string{"remove or rewrite the duplicated paragraph"},
			})
		}
		seen[p] = true
	}

	words := len(strings.Fields(unit.Text))
	if words > 1500 && !strings.Contains(unit.Text, "\n#") {
		score -= 0.2
		findings = append(findings, types.QualityFinding{
			Description:     fmt.Sprintf("section is %d words with no subdivision; likely exceeds its slot", words),
			Severity:        types.SeverityWarning,
			Category:        types.CategoryDurationViolation,
			Recommendations: []string{"split the section with subheadings or trim it"},
		})
	}
	return clamp01(score), findings
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
