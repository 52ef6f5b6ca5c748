// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package finalize turns drafted content units into the final compiled
// document plus quality artifacts: per-section records, a run summary, and
// quality metrics. Flagged sections are never excluded from the document;
// issues are reported out of band. See docs/ARCHITECTURE.md § Finalization.
package finalize

import (
	"context"
	"log/slog"

	"github.com/pdiddy/transcript-engine/internal/assess"
	"github.com/pdiddy/transcript-engine/internal/consensus"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Assessment type labels reported in quality metrics.
const (
	AssessmentConsensus = "multi_agent_consensus"
	AssessmentBasic     = "basic_pattern_matching"
)

// Finalizer performs editorial finalization over a list of content units.
// The assessment mode (consensus vs basic heuristics) is resolved once at
// construction. A Finalizer is not safe for concurrent Finalize calls.
type Finalizer struct {
	cfg       types.FinalizerConfig
	consensus *consensus.Orchestrator
	logger    *slog.Logger

	// State from the most recent Finalize call, backing QualityMetrics.
	lastRecords   []types.SectionQualityRecord
	lastConsensus map[string]types.ConsensusResult
}

// New builds a Finalizer. A nil orchestrator selects the basic
// pattern-matching path.
func New(cfg types.FinalizerConfig, co *consensus.Orchestrator, logger *slog.Logger) *Finalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output"
	}
	if cfg.QualityDir == "" {
		cfg.QualityDir = "quality"
	}
	return &Finalizer{cfg: cfg, consensus: co, logger: logger}
}

// Finalize assesses every unit in order, persists a quality record per
// section, and writes the compiled document and the quality summary.
// Artifact write failures are returned immediately: an unwritten quality
// record is a correctness violation, not a warning.
func (f *Finalizer) Finalize(ctx context.Context, units []types.ContentUnit, syllabus *types.Syllabus) (docPath, reportPath string, err error) {
	records := make([]types.SectionQualityRecord, 0, len(units))
	// Consensus results for this run, keyed by section id. Owned by this
	// call; not shared across concurrent finalizers.
	cache := make(map[string]types.ConsensusResult)

	sections := make([]types.DocumentSection, 0, len(units))
	for _, unit := range units {
		var spec *types.SectionSpec
		if syllabus != nil {
			spec = syllabus.Section(unit.ID)
		}

		record := types.SectionQualityRecord{SectionID: unit.ID}
		if f.consensus != nil {
			result := f.consensus.AssessUnit(ctx, unit, spec)
			cache[unit.ID] = result
			record.Consensus = &result
			record.Issues = issuesFromFindings(unit.ID, result.AllFindings)
		} else {
			record.Issues = f.basicIssues(unit, spec)
		}
		record.Approved = approved(record.Issues)

		if err := f.writeSectionRecord(record); err != nil {
			return "", "", err
		}
		records = append(records, record)

		f.logger.Info("section finalized",
			"section", unit.ID,
			"issues", len(record.Issues),
			"approved", record.Approved)

		sections = append(sections, types.DocumentSection{
			SectionID: unit.ID,
			Title:     sectionTitle(unit, spec),
			Content:   unit.Text,
		})
	}

	courseTitle := "Training Transcript"
	if syllabus != nil && syllabus.CourseTitle != "" {
		courseTitle = syllabus.CourseTitle
	}
	doc := types.FinalDocument{CourseTitle: courseTitle, Sections: sections}

	docPath, err = f.writeDocument(doc)
	if err != nil {
		return "", "", err
	}
	reportPath, err = f.writeSummary(f.buildSummary(records, cache))
	if err != nil {
		return "", "", err
	}

	f.lastRecords = records
	f.lastConsensus = cache
	return docPath, reportPath, nil
}

// Records returns the per-section quality records of the most recent
// Finalize call, in unit order. Nil before the first call.
func (f *Finalizer) Records() []types.SectionQualityRecord {
	return append([]types.SectionQualityRecord(nil), f.lastRecords...)
}

// basicIssues runs the deterministic heuristic battery over one unit and
// converts every violation to an issue. It mirrors the assessor fallbacks
// in spirit: pattern and length checks only, no model calls.
func (f *Finalizer) basicIssues(unit types.ContentUnit, spec *types.SectionSpec) []types.QualityIssue {
	var issues []types.QualityIssue
	for _, dim := range types.Dimensions {
		_, findings := assess.Heuristic(dim, unit, spec)
		issues = append(issues, issuesFromFindings(unit.ID, findings)...)
	}
	return issues
}

// issuesFromFindings converts findings into externally-reported issues.
func issuesFromFindings(sectionID string, findings []types.QualityFinding) []types.QualityIssue {
	issues := make([]types.QualityIssue, 0, len(findings))
	for _, finding := range findings {
		issues = append(issues, types.QualityIssue{
			Description:        finding.Description,
			Severity:           finding.Severity,
			SectionID:          sectionID,
			MisconductCategory: finding.Category,
		})
	}
	return issues
}

// approved reports the approval rule: no ERROR issue.
func approved(issues []types.QualityIssue) bool {
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			return false
		}
	}
	return true
}

func sectionTitle(unit types.ContentUnit, spec *types.SectionSpec) string {
	if unit.Title != "" {
		return unit.Title
	}
	if spec != nil && spec.Title != "" {
		return spec.Title
	}
	return unit.ID
}

// buildSummary aggregates section records into the run-level summary.
func (f *Finalizer) buildSummary(records []types.SectionQualityRecord, cache map[string]types.ConsensusResult) types.QualitySummary {
	summary := types.QualitySummary{
		IssuesBySeverity: map[types.Severity]int{
			types.SeverityInfo:    0,
			types.SeverityWarning: 0,
			types.SeverityError:   0,
		},
		IssuesByCategory:   map[string]int{},
		SectionsWithErrors: []string{},
		Details:            records,
	}
	for _, record := range records {
		hasError := false
		for _, issue := range record.Issues {
			summary.TotalIssues++
			summary.IssuesBySeverity[issue.Severity]++
			summary.IssuesByCategory[issue.MisconductCategory]++
			if issue.Severity == types.SeverityError {
				hasError = true
			}
		}
		if hasError {
			summary.SectionsWithErrors = append(summary.SectionsWithErrors, record.SectionID)
		}
	}

	if f.consensus != nil && len(cache) > 0 {
		summary.DimensionAverages = dimensionAverages(cache)
		var sum float64
		for _, result := range cache {
			sum += result.ConsensusConfidence
		}
		summary.AvgConsensusConfidence = sum / float64(len(cache))
	}
	return summary
}

// dimensionAverages computes the per-dimension mean score across all units.
func dimensionAverages(cache map[string]types.ConsensusResult) map[types.Dimension]float64 {
	sums := make(map[types.Dimension]float64)
	counts := make(map[types.Dimension]int)
	for _, result := range cache {
		for dim, a := range result.PerDimension {
			sums[dim] += a.Score
			counts[dim]++
		}
	}
	averages := make(map[types.Dimension]float64, len(sums))
	for dim, sum := range sums {
		averages[dim] = sum / float64(counts[dim])
	}
	return averages
}

// QualityMetrics returns the metrics of the most recent Finalize call.
// The quality score is 1.0 minus a weighted penalty (0.3 per error, 0.1
// per warning), floored at 0.
func (f *Finalizer) QualityMetrics() map[string]any {
	var errorCount, warningCount, totalIssues int
	sectionsWithErrors := []string{}
	categories := make(map[string]int)

	for _, record := range f.lastRecords {
		hasError := false
		for _, issue := range record.Issues {
			totalIssues++
			categories[issue.MisconductCategory]++
			switch issue.Severity {
			case types.SeverityError:
				errorCount++
				hasError = true
			case types.SeverityWarning:
				warningCount++
			}
		}
		if hasError {
			sectionsWithErrors = append(sectionsWithErrors, record.SectionID)
		}
	}

	score := 1.0 - 0.3*float64(errorCount) - 0.1*float64(warningCount)
	if score < 0 {
		score = 0
	}

	metrics := map[string]any{
		"total_issues":          totalIssues,
		"error_count":           errorCount,
		"warning_count":         warningCount,
		"sections_with_errors":  sectionsWithErrors,
		"misconduct_categories": categories,
		"quality_score":         score,
		"assessment_type":       AssessmentBasic,
	}

	if f.consensus != nil && len(f.lastConsensus) > 0 {
		metrics["assessment_type"] = AssessmentConsensus
		for dim, avg := range dimensionAverages(f.lastConsensus) {
			metrics["avg_"+string(dim)] = avg
		}
		var confSum, overallSum float64
		for _, result := range f.lastConsensus {
			confSum += result.ConsensusConfidence
			overallSum += result.OverallScore
		}
		n := float64(len(f.lastConsensus))
		metrics["avg_consensus_confidence"] = confSum / n
		metrics["multi_agent_overall_score"] = overallSum / n
	}
	return metrics
}
