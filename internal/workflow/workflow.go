// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow drives the three-phase transcript pipeline: research,
// editing, and editorial finalization. Phases are strictly sequential;
// section-level research failures are soft, editing and finalization
// failures are fatal. See docs/ARCHITECTURE.md § Workflow.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Researcher gathers notes for one syllabus section. Implementations may be
// slow or unreliable; the orchestrator applies per-section timeouts and
// omits failed sections.
type Researcher interface {
	Research(ctx context.Context, spec types.SectionSpec) (types.ResearchNotes, error)
}

// Editor drafts all sections in a single call from the aggregated notes.
// The returned map is keyed by section id.
type Editor interface {
	Edit(ctx context.Context, notes map[string]types.ResearchNotes, syllabus types.Syllabus) (map[string]string, error)
}

// DocumentFinalizer compiles the drafted units and reports quality.
type DocumentFinalizer interface {
	Finalize(ctx context.Context, units []types.ContentUnit, syllabus *types.Syllabus) (docPath, reportPath string, err error)
	QualityMetrics() map[string]any
}

// Default phase timeouts.
const (
	defaultResearchTimeout     = 10 * time.Minute
	defaultEditingTimeout      = 10 * time.Minute
	defaultFinalizationTimeout = 5 * time.Minute
)

// Config holds the orchestrator's collaborators and policy knobs.
type Config struct {
	Logger     *slog.Logger
	Clock      clockwork.Clock
	Researcher Researcher
	Editor     Editor
	Finalizer  DocumentFinalizer

	// Workflow carries phase timeouts and the error policy.
	Workflow types.WorkflowConfig

	// OutputDir is probed by HealthCheck for writability.
	OutputDir string
}

// Validate fills defaults and rejects missing collaborators.
func (c *Config) Validate() error {
	if c.Researcher == nil {
		return errors.New("researcher is required")
	}
	if c.Editor == nil {
		return errors.New("editor is required")
	}
	if c.Finalizer == nil {
		return errors.New("finalizer is required")
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Clock == nil {
		c.Clock = clockwork.NewRealClock()
	}
	if c.Workflow.ResearchTimeout <= 0 {
		c.Workflow.ResearchTimeout = defaultResearchTimeout
	}
	if c.Workflow.EditingTimeout <= 0 {
		c.Workflow.EditingTimeout = defaultEditingTimeout
	}
	if c.Workflow.FinalizationTimeout <= 0 {
		c.Workflow.FinalizationTimeout = defaultFinalizationTimeout
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	return nil
}

// Orchestrator runs one syllabus through the pipeline. It owns the
// WorkflowResult for the duration of a run; the result is immutable once
// returned.
type Orchestrator struct {
	cfg Config
}

// New builds an Orchestrator from a validated config.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workflow config: %w", err)
	}
	return &Orchestrator{cfg: cfg}, nil
}

// Run executes research, editing, and finalization over the syllabus.
// Failures are reported through the result: soft failures accumulate in
// Errors with Success still true; fatal failures set Success false and
// preserve artifacts already produced by completed phases.
func (o *Orchestrator) Run(ctx context.Context, syllabus types.Syllabus) types.WorkflowResult {
	start := o.cfg.Clock.Now()
	result := types.WorkflowResult{}

	fail := func(err error) types.WorkflowResult {
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		result.ExecutionTimeSeconds = o.cfg.Clock.Since(start).Seconds()
		o.cfg.Logger.Error("pipeline failed", "error", err)
		return result
	}

	if len(syllabus.Sections) == 0 {
		return fail(errors.New("syllabus has no sections"))
	}

	// Phase 1: research.
	notes, warnings, err := o.researchPhase(ctx, syllabus)
	result.Errors = append(result.Errors, warnings...)
	if err != nil {
		return fail(err)
	}
	result.ResearchNotes = notes

	// Phase 2: editing. Fatal on failure; no partial credit.
	units, warnings, err := o.editingPhase(ctx, syllabus, notes)
	result.Errors = append(result.Errors, warnings...)
	if err != nil {
		return fail(fmt.Errorf("editing phase: %w", err))
	}
	result.ContentUnits = units

	// Phase 3: finalization. Fatal on failure.
	finCtx, cancel := context.WithTimeout(ctx, o.cfg.Workflow.FinalizationTimeout)
	defer cancel()
	type artifacts struct{ doc, report string }
	out, err := runPhase(finCtx, func(ctx context.Context) (artifacts, error) {
		d, r, err := o.cfg.Finalizer.Finalize(ctx, units, &syllabus)
		return artifacts{d, r}, err
	})
	if err != nil {
		return fail(fmt.Errorf("finalization phase: %w", err))
	}
	result.FinalDocumentPath = out.doc
	result.QualityReportPath = out.report

	result.QualityMetrics = o.cfg.Finalizer.QualityMetrics()
	result.Success = true
	result.ExecutionTimeSeconds = o.cfg.Clock.Since(start).Seconds()
	o.cfg.Logger.Info("pipeline complete",
		"sections", len(syllabus.Sections),
		"units", len(units),
		"warnings", len(result.Errors),
		"elapsed", result.ExecutionTimeSeconds)
	return result
}

// researchPhase gathers notes section by section. Each section gets an
// equal share of the phase timeout. A failed or timed-out section is
// recorded as a warning and omitted; the phase-entry retry budget re-runs
// only the sections still missing notes.
func (o *Orchestrator) researchPhase(ctx context.Context, syllabus types.Syllabus) (map[string]types.ResearchNotes, []string, error) {
	perSection := o.cfg.Workflow.ResearchTimeout / time.Duration(len(syllabus.Sections))
	notes := make(map[string]types.ResearchNotes)
	failures := make(map[string]error)

	for attempt := 0; attempt <= o.cfg.Workflow.MaxRetries; attempt++ {
		failures = make(map[string]error)
		for _, spec := range syllabus.Sections {
			if _, done := notes[spec.SectionID]; done {
				continue
			}
			secCtx, cancel := context.WithTimeout(ctx, perSection)
			n, err := runPhase(secCtx, func(ctx context.Context) (types.ResearchNotes, error) {
				return o.cfg.Researcher.Research(ctx, spec)
			})
			cancel()
			if err != nil {
				failures[spec.SectionID] = err
				o.cfg.Logger.Warn("section research failed", "section", spec.SectionID, "error", err)
				continue
			}
			notes[spec.SectionID] = n
		}
		if len(failures) == 0 {
			break
		}
	}

	var warnings []string
	for _, spec := range syllabus.Sections {
		if err, failed := failures[spec.SectionID]; failed {
			warnings = append(warnings, fmt.Sprintf("research failed for section %s: %v", spec.SectionID, err))
		}
	}

	if len(notes) == 0 {
		return nil, warnings, errors.New("research phase: no section produced notes")
	}
	if !o.cfg.Workflow.ContinueOnErrors && len(failures) > 0 {
		return nil, warnings, fmt.Errorf("research phase: %d section(s) failed and continue_on_errors is disabled", len(failures))
	}
	return notes, warnings, nil
}

// editingPhase drafts all sections in one call under the phase timeout.
// Drafts with empty content are dropped with a warning. Units are ordered
// by syllabus declaration order.
func (o *Orchestrator) editingPhase(ctx context.Context, syllabus types.Syllabus, notes map[string]types.ResearchNotes) ([]types.ContentUnit, []string, error) {
	editCtx, cancel := context.WithTimeout(ctx, o.cfg.Workflow.EditingTimeout)
	defer cancel()

	drafts, err := runPhase(editCtx, func(ctx context.Context) (map[string]string, error) {
		return o.cfg.Editor.Edit(ctx, notes, syllabus)
	})
	if err != nil {
		return nil, nil, err
	}

	var units []types.ContentUnit
	var warnings []string
	for _, spec := range syllabus.Sections {
		text, ok := drafts[spec.SectionID]
		if !ok {
			continue
		}
		if len(text) == 0 {
			warnings = append(warnings, fmt.Sprintf("empty draft for section %s dropped", spec.SectionID))
			continue
		}
		units = append(units, types.ContentUnit{
			ID:    spec.SectionID,
			Title: spec.Title,
			Text:  text,
		})
	}
	return units, warnings, nil
}

// runPhase invokes fn in its own goroutine and enforces the context
// deadline even when fn ignores its context. An abandoned fn finishes in
// the background; its result is discarded.
func runPhase[T any](ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	type outcome struct {
		value T
		err   error
	}
	ch := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		ch <- outcome{v, err}
	}()
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case out := <-ch:
		return out.value, out.err
	}
}

// Health reports the outcome of a pipeline health check.
type Health struct {
	OutputDirWritable bool     `json:"output_dir_writable"`
	ResearcherReady   bool     `json:"researcher_ready"`
	EditorReady       bool     `json:"editor_ready"`
	FinalizerReady    bool     `json:"finalizer_ready"`
	Problems          []string `json:"problems,omitempty"`
}

// OK reports whether every check passed.
func (h Health) OK() bool { return len(h.Problems) == 0 }

// HealthCheck verifies the output directory is writable and the
// collaborators are constructed, without running any phase.
func (o *Orchestrator) HealthCheck() Health {
	return CheckHealth(o.cfg)
}

// CheckHealth runs the health checks over a config that need not pass
// Validate, so a partially-constructed pipeline can still be diagnosed.
func CheckHealth(cfg Config) Health {
	h := Health{
		ResearcherReady: cfg.Researcher != nil,
		EditorReady:     cfg.Editor != nil,
		FinalizerReady:  cfg.Finalizer != nil,
	}
	if !h.ResearcherReady {
		h.Problems = append(h.Problems, "researcher not configured")
	}
	if !h.EditorReady {
		h.Problems = append(h.Problems, "editor not configured")
	}
	if !h.FinalizerReady {
		h.Problems = append(h.Problems, "finalizer not configured")
	}

	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "output"
	}
	if err := probeDir(outputDir); err != nil {
		h.Problems = append(h.Problems, fmt.Sprintf("output directory not writable: %v", err))
	} else {
		h.OutputDirWritable = true
	}
	return h
}

// probeDir verifies dir exists (creating it if needed) and accepts writes.
func probeDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".healthcheck")
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}
