// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Severity classifies how serious a quality finding or issue is.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Confidence grades how much trust to place in an assessment.
type Confidence string

const (
	ConfidenceLow      Confidence = "low"
	ConfidenceMedium   Confidence = "medium"
	ConfidenceHigh     Confidence = "high"
	ConfidenceVeryHigh Confidence = "very_high"
)

// Dimension is one independent axis of quality assessment.
type Dimension string

const (
	DimSemanticAlignment    Dimension = "semantic_alignment"
	DimPedagogicalQuality   Dimension = "pedagogical_quality"
	DimGroundedness         Dimension = "groundedness"
	DimContentDepth         Dimension = "content_depth"
	DimGuidelinesCompliance Dimension = "guidelines_compliance"
)

// Dimensions lists every assessment dimension in weight-table order.
var Dimensions = []Dimension{
	DimSemanticAlignment,
	DimPedagogicalQuality,
	DimGroundedness,
	DimContentDepth,
	DimGuidelinesCompliance,
}

// Misconduct categories tag why an issue was raised. The taxonomy is fixed;
// each category belongs to one severity tier.
const (
	CategorySyllabusAlignment  = "content_syllabus_alignment"
	CategoryInadequateLevel    = "inadequate_level"
	CategoryDurationViolation  = "duration_violations"
	CategoryGroundedness       = "groundedness_violations"
	CategoryTrainingPrinciples = "training_principles_violations"
	CategoryContentRepetition  = "content_repetition"
)

// CategoryTier identifies the severity tier of a misconduct category.
type CategoryTier string

const (
	TierCritical CategoryTier = "critical"
	TierHigh     CategoryTier = "high"
	TierMedium   CategoryTier = "medium"
)

// categoryTiers maps every misconduct category to its tier.
var categoryTiers = map[string]CategoryTier{
	CategorySyllabusAlignment:  TierCritical,
	CategoryInadequateLevel:    TierCritical,
	CategoryDurationViolation:  TierHigh,
	CategoryGroundedness:       TierHigh,
	CategoryTrainingPrinciples: TierHigh,
	CategoryContentRepetition:  TierMedium,
}

// TierOf returns the severity tier for a misconduct category. Unknown
// categories report TierMedium and false.
func TierOf(category string) (CategoryTier, bool) {
	t, ok := categoryTiers[category]
	if !ok {
		return TierMedium, false
	}
	return t, true
}

// QualityFinding is one observation produced by an assessor for one content
// unit along one dimension.
type QualityFinding struct {
	// Description explains what was observed.
	Description string `json:"description" yaml:"description"`

	// Severity grades the finding: INFO, WARNING, or ERROR.
	Severity Severity `json:"severity" yaml:"severity"`

	// Category is the misconduct category tag.
	Category string `json:"category" yaml:"category"`

	// Evidence quotes the content passages supporting the finding.
	Evidence []string `json:"evidence,omitempty" yaml:"evidence,omitempty"`

	// Recommendations suggests concrete fixes.
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// DimensionAssessment is the output of one assessor for one content unit.
// Score is a normalized quality measure: 1.0 means no issues found along
// this dimension.
type DimensionAssessment struct {
	Dimension  Dimension        `json:"dimension" yaml:"dimension"`
	Score      float64          `json:"score" yaml:"score"`
	Confidence Confidence       `json:"confidence" yaml:"confidence"`
	Findings   []QualityFinding `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// ConsensusResult aggregates all dimension assessments for one content unit.
type ConsensusResult struct {
	// OverallScore is the weighted mean of per-dimension scores.
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`

	// ConsensusConfidence is derived from the variance of per-dimension
	// scores around OverallScore: lower variance, higher confidence.
	// The 1-2·variance formula is a heuristic carried over from the
	// original scoring scheme, not a validated confidence measure.
	ConsensusConfidence float64 `json:"consensus_confidence" yaml:"consensus_confidence"`

	// PerDimension holds each dimension's assessment.
	PerDimension map[Dimension]DimensionAssessment `json:"per_dimension" yaml:"per_dimension"`

	// AllFindings flattens every dimension's findings.
	AllFindings []QualityFinding `json:"all_findings,omitempty" yaml:"all_findings,omitempty"`
}

// QualityIssue is a finalizer-reported issue derived from a finding or a
// heuristic violation. Immutable once created.
type QualityIssue struct {
	Description        string   `json:"description" yaml:"description"`
	Severity           Severity `json:"severity" yaml:"severity"`
	SectionID          string   `json:"section_id" yaml:"section_id"`
	MisconductCategory string   `json:"misconduct_category" yaml:"misconduct_category"`
}

// SectionQualityRecord is the per-section quality artifact persisted by the
// finalizer: the section's issues and the approval verdict.
type SectionQualityRecord struct {
	SectionID string         `json:"section_id" yaml:"section_id"`
	Issues    []QualityIssue `json:"issues" yaml:"issues"`

	// Approved is true iff no issue has severity ERROR. An unapproved
	// section is still included in the final document.
	Approved bool `json:"approved" yaml:"approved"`

	// Consensus carries the consensus data when multi-agent assessment ran.
	Consensus *ConsensusResult `json:"consensus,omitempty" yaml:"consensus,omitempty"`
}

// QualitySummary is the run-level quality report artifact.
type QualitySummary struct {
	TotalIssues        int                    `json:"total_issues" yaml:"total_issues"`
	IssuesBySeverity   map[Severity]int       `json:"issues_by_severity" yaml:"issues_by_severity"`
	IssuesByCategory   map[string]int         `json:"issues_by_category" yaml:"issues_by_category"`
	SectionsWithErrors []string               `json:"sections_with_errors" yaml:"sections_with_errors"`
	Details            []SectionQualityRecord `json:"details" yaml:"details"`

	// DimensionAverages and AvgConsensusConfidence are present only when
	// multi-agent consensus assessment ran.
	DimensionAverages      map[Dimension]float64 `json:"dimension_averages,omitempty" yaml:"dimension_averages,omitempty"`
	AvgConsensusConfidence float64               `json:"avg_consensus_confidence,omitempty" yaml:"avg_consensus_confidence,omitempty"`
}
