// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// WorkflowResult is the root output of one pipeline run. It is owned by the
// orchestrator for the duration of the run and immutable once returned.
type WorkflowResult struct {
	// Success reports whether every phase completed. A successful run may
	// still carry warnings in Errors (completed with warnings).
	Success bool `json:"success" yaml:"success"`

	// FinalDocumentPath is the compiled document artifact. Empty on fatal
	// failure before finalization.
	FinalDocumentPath string `json:"final_document_path,omitempty" yaml:"final_document_path,omitempty"`

	// QualityReportPath is the quality summary artifact.
	QualityReportPath string `json:"quality_report_path,omitempty" yaml:"quality_report_path,omitempty"`

	// ResearchNotes maps section id to the notes gathered for it. Sections
	// whose research failed are absent.
	ResearchNotes map[string]ResearchNotes `json:"research_notes,omitempty" yaml:"research_notes,omitempty"`

	// ContentUnits lists the drafted units produced by the editing phase.
	ContentUnits []ContentUnit `json:"content_units,omitempty" yaml:"content_units,omitempty"`

	// ExecutionTimeSeconds measures the run from pipeline start to end.
	ExecutionTimeSeconds float64 `json:"execution_time_seconds" yaml:"execution_time_seconds"`

	// Errors accumulates soft-failure warnings and, on fatal failure, the
	// fatal error. Nil when the run was clean.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// QualityMetrics holds the finalizer's metrics for the run.
	QualityMetrics map[string]any `json:"quality_metrics,omitempty" yaml:"quality_metrics,omitempty"`
}

// RunRecord is the run-history row persisted by the store.
type RunRecord struct {
	// ID is the run's UUID.
	ID string `json:"id" yaml:"id"`

	// CourseTitle is the syllabus title the run was driven by.
	CourseTitle string `json:"course_title" yaml:"course_title"`

	// StartedAt is when the pipeline run began.
	StartedAt time.Time `json:"started_at" yaml:"started_at"`

	Success              bool     `json:"success" yaml:"success"`
	ExecutionTimeSeconds float64  `json:"execution_time_seconds" yaml:"execution_time_seconds"`
	Errors               []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// FinalDocumentPath and QualityReportPath point at the run's artifacts.
	FinalDocumentPath string `json:"final_document_path,omitempty" yaml:"final_document_path,omitempty"`
	QualityReportPath string `json:"quality_report_path,omitempty" yaml:"quality_report_path,omitempty"`
}
