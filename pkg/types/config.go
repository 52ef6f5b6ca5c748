// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// AIConfig holds shared settings for components that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (optional, for proxies).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// AssessmentConfig holds settings for multi-agent quality assessment.
type AssessmentConfig struct {
	AIConfig `yaml:",inline"`

	// UseConsensus selects multi-agent consensus assessment. When false the
	// finalizer falls back to basic pattern-matching heuristics. Resolved
	// once at construction, not per call.
	UseConsensus bool `json:"use_consensus" yaml:"use_consensus"`

	// PoolSize bounds concurrent dimension assessments (default 5, one per
	// dimension).
	PoolSize int `json:"pool_size" yaml:"pool_size"`
}

// FinalizerConfig holds settings for editorial finalization.
type FinalizerConfig struct {
	// OutputDir is the directory for the final document artifacts.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// QualityDir is the directory for per-section quality records and the
	// quality summary.
	QualityDir string `json:"quality_dir" yaml:"quality_dir"`
}

// WorkflowConfig holds settings for the three-phase pipeline run.
type WorkflowConfig struct {
	// ResearchTimeout bounds the whole research phase; each section gets
	// ResearchTimeout / section count (default 10m).
	ResearchTimeout time.Duration `json:"research_timeout" yaml:"research_timeout"`

	// EditingTimeout bounds the single editing call (default 10m).
	EditingTimeout time.Duration `json:"editing_timeout" yaml:"editing_timeout"`

	// FinalizationTimeout bounds the single finalization call (default 5m).
	FinalizationTimeout time.Duration `json:"finalization_timeout" yaml:"finalization_timeout"`

	// ContinueOnErrors keeps the run alive when individual sections fail
	// research. When false, any research failure aborts the pipeline.
	ContinueOnErrors bool `json:"continue_on_errors" yaml:"continue_on_errors"`

	// MaxRetries is the research phase-entry retry budget (default 0).
	// Individual timeouts are not retried.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// StoreConfig holds settings for the run-history store.
type StoreConfig struct {
	// DataDir is the directory holding the SQLite database (default "runs").
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxResults is the default maximum number of listed runs (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all component configurations for the pipeline.
type PipelineConfig struct {
	Assessment AssessmentConfig `json:"assessment" yaml:"assessment"`
	Finalizer  FinalizerConfig  `json:"finalizer" yaml:"finalizer"`
	Workflow   WorkflowConfig   `json:"workflow" yaml:"workflow"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
