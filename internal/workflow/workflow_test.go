// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

type researchFunc func(ctx context.Context, spec types.SectionSpec) (types.ResearchNotes, error)

func (f researchFunc) Research(ctx context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
	return f(ctx, spec)
}

type editFunc func(ctx context.Context, notes map[string]types.ResearchNotes, syllabus types.Syllabus) (map[string]string, error)

func (f editFunc) Edit(ctx context.Context, notes map[string]types.ResearchNotes, syllabus types.Syllabus) (map[string]string, error) {
	return f(ctx, notes, syllabus)
}

type stubFinalizer struct {
	docPath    string
	reportPath string
	err        error
	metrics    map[string]any
	onCall     func([]types.ContentUnit)
}

func (s *stubFinalizer) Finalize(_ context.Context, units []types.ContentUnit, _ *types.Syllabus) (string, string, error) {
	if s.onCall != nil {
		s.onCall(units)
	}
	return s.docPath, s.reportPath, s.err
}

func (s *stubFinalizer) QualityMetrics() map[string]any { return s.metrics }

// trace records phase calls in order, safely across the phase goroutines.
type trace struct {
	mu    sync.Mutex
	calls []string
}

func (tr *trace) add(call string) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.calls = append(tr.calls, call)
}

func (tr *trace) list() []string {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]string(nil), tr.calls...)
}

func threeSections() types.Syllabus {
	return types.Syllabus{
		CourseTitle: "Course",
		Sections: []types.SectionSpec{
			{SectionID: "s1", Title: "One"},
			{SectionID: "s2", Title: "Two"},
			{SectionID: "s3", Title: "Three"},
		},
	}
}

func happyConfig(tr *trace) Config {
	return Config{
		Researcher: researchFunc(func(_ context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
			tr.add("research:" + spec.SectionID)
			return types.ResearchNotes{SectionID: spec.SectionID, Summary: "notes for " + spec.SectionID}, nil
		}),
		Editor: editFunc(func(_ context.Context, notes map[string]types.ResearchNotes, syl types.Syllabus) (map[string]string, error) {
			tr.add("edit")
			drafts := make(map[string]string, len(notes))
			for id := range notes {
				drafts[id] = "draft for " + id
			}
			return drafts, nil
		}),
		Finalizer: &stubFinalizer{
			docPath:    "out/final_document.json",
			reportPath: "quality/quality_summary.json",
			metrics:    map[string]any{"quality_score": 1.0},
			onCall:     func([]types.ContentUnit) { tr.add("finalize") },
		},
	}
}

func TestRunPhasesInOrder(t *testing.T) {
	var tr trace
	o, err := New(happyConfig(&tr))
	require.NoError(t, err)

	result := o.Run(context.Background(), threeSections())

	require.True(t, result.Success, "errors: %v", result.Errors)
	assert.Equal(t, []string{"research:s1", "research:s2", "research:s3", "edit", "finalize"}, tr.list())
	assert.Len(t, result.ResearchNotes, 3)
	assert.Len(t, result.ContentUnits, 3)
	assert.Equal(t, "out/final_document.json", result.FinalDocumentPath)
	assert.Equal(t, "quality/quality_summary.json", result.QualityReportPath)
	assert.Equal(t, map[string]any{"quality_score": 1.0}, result.QualityMetrics)
	assert.Empty(t, result.Errors)
	assert.GreaterOrEqual(t, result.ExecutionTimeSeconds, 0.0)
}

func TestSectionTimeoutIsSoftFailure(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Workflow.ResearchTimeout = 150 * time.Millisecond // 50ms per section
	cfg.Workflow.ContinueOnErrors = true
	cfg.Researcher = researchFunc(func(ctx context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
		if spec.SectionID == "s2" {
			// Ignores its context entirely; the orchestrator must cut it off.
			time.Sleep(500 * time.Millisecond)
		}
		return types.ResearchNotes{SectionID: spec.SectionID}, nil
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	require.True(t, result.Success, "timed-out section must not fail the run")
	assert.Contains(t, result.ResearchNotes, "s1")
	assert.NotContains(t, result.ResearchNotes, "s2")
	assert.Contains(t, result.ResearchNotes, "s3")

	require.NotEmpty(t, result.Errors)
	var mentioned bool
	for _, e := range result.Errors {
		if strings.Contains(e, "s2") {
			mentioned = true
		}
	}
	assert.True(t, mentioned, "errors must name the failed section: %v", result.Errors)
	assert.Len(t, result.ContentUnits, 2)
}

func TestResearchRetryRecoversFlakySection(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Workflow.MaxRetries = 1

	var mu sync.Mutex
	attempts := map[string]int{}
	cfg.Researcher = researchFunc(func(_ context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
		mu.Lock()
		attempts[spec.SectionID]++
		n := attempts[spec.SectionID]
		mu.Unlock()
		if spec.SectionID == "s2" && n == 1 {
			return types.ResearchNotes{}, errors.New("transient upstream failure")
		}
		return types.ResearchNotes{SectionID: spec.SectionID}, nil
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	require.True(t, result.Success)
	assert.Len(t, result.ResearchNotes, 3)
	assert.Empty(t, result.Errors, "a recovered section leaves no warning")
	assert.Equal(t, 2, attempts["s2"])
	assert.Equal(t, 1, attempts["s1"], "successful sections are not re-run")
}

func TestAllResearchFailedIsFatal(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Workflow.ContinueOnErrors = true
	cfg.Researcher = researchFunc(func(_ context.Context, _ types.SectionSpec) (types.ResearchNotes, error) {
		return types.ResearchNotes{}, errors.New("no sources reachable")
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	assert.False(t, result.Success)
	assert.NotContains(t, tr.list(), "edit", "editing must not run with no notes")
}

func TestContinueOnErrorsDisabled(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Workflow.ContinueOnErrors = false
	cfg.Researcher = researchFunc(func(_ context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
		if spec.SectionID == "s2" {
			return types.ResearchNotes{}, errors.New("boom")
		}
		return types.ResearchNotes{SectionID: spec.SectionID}, nil
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	assert.False(t, result.Success)
	assert.NotContains(t, tr.list(), "edit")
}

func TestEditingFailureIsFatal(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Editor = editFunc(func(_ context.Context, _ map[string]types.ResearchNotes, _ types.Syllabus) (map[string]string, error) {
		return nil, errors.New("model refused")
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	assert.False(t, result.Success)
	assert.Empty(t, result.FinalDocumentPath)
	assert.Len(t, result.ResearchNotes, 3, "completed research is preserved")
	assert.NotContains(t, tr.list(), "finalize")
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1], "editing phase")
}

func TestFinalizationFailureIsFatal(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Finalizer = &stubFinalizer{err: errors.New("disk full")}

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	assert.False(t, result.Success)
	assert.Empty(t, result.FinalDocumentPath)
	assert.Len(t, result.ContentUnits, 3, "completed editing is preserved")
}

func TestEmptyDraftDropped(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.Editor = editFunc(func(_ context.Context, notes map[string]types.ResearchNotes, _ types.Syllabus) (map[string]string, error) {
		return map[string]string{"s1": "draft one", "s2": "", "s3": "draft three"}, nil
	})

	o, err := New(cfg)
	require.NoError(t, err)
	result := o.Run(context.Background(), threeSections())

	require.True(t, result.Success)
	require.Len(t, result.ContentUnits, 2)
	assert.Equal(t, "s1", result.ContentUnits[0].ID)
	assert.Equal(t, "s3", result.ContentUnits[1].ID)

	var mentioned bool
	for _, e := range result.Errors {
		if strings.Contains(e, "empty draft") && strings.Contains(e, "s2") {
			mentioned = true
		}
	}
	assert.True(t, mentioned, "errors: %v", result.Errors)
}

func TestEmptySyllabusFails(t *testing.T) {
	var tr trace
	o, err := New(happyConfig(&tr))
	require.NoError(t, err)

	result := o.Run(context.Background(), types.Syllabus{CourseTitle: "Empty"})

	assert.False(t, result.Success)
	assert.Empty(t, tr.list())
}

func TestConfigValidation(t *testing.T) {
	var tr trace
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing researcher", func(c *Config) { c.Researcher = nil }},
		{"missing editor", func(c *Config) { c.Editor = nil }},
		{"missing finalizer", func(c *Config) { c.Finalizer = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := happyConfig(&tr)
			tt.mutate(&cfg)
			_, err := New(cfg)
			require.Error(t, err)
		})
	}
}

func TestCheckHealth(t *testing.T) {
	var tr trace
	cfg := happyConfig(&tr)
	cfg.OutputDir = t.TempDir()

	h := CheckHealth(cfg)
	assert.True(t, h.OK(), "problems: %v", h.Problems)
	assert.True(t, h.OutputDirWritable)
	assert.True(t, h.ResearcherReady)

	h = CheckHealth(Config{OutputDir: t.TempDir()})
	assert.False(t, h.OK())
	assert.False(t, h.EditorReady)
	assert.Len(t, h.Problems, 3)
}
