// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.StoreConfig{DataDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := types.RunRecord{
		ID:                   "run-1",
		CourseTitle:          "Course",
		StartedAt:            time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
		Success:              true,
		ExecutionTimeSeconds: 42.5,
		Errors:               []string{"research failed for section s2: timeout"},
		FinalDocumentPath:    "output/final_document.json",
		QualityReportPath:    "quality/quality_summary.json",
	}
	sections := []types.SectionQualityRecord{
		{SectionID: "s1", Approved: true},
		{
			SectionID: "s3",
			Approved:  false,
			Issues: []types.QualityIssue{{
				Description:        "content is 4 words, below the 10-word minimum",
				Severity:           types.SeverityError,
				SectionID:          "s3",
				MisconductCategory: types.CategoryInadequateLevel,
			}},
		},
	}
	require.NoError(t, s.SaveRun(ctx, run, sections))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, run.CourseTitle, got.CourseTitle)
	assert.True(t, got.StartedAt.Equal(run.StartedAt))
	assert.True(t, got.Success)
	assert.Equal(t, run.ExecutionTimeSeconds, got.ExecutionTimeSeconds)
	assert.Equal(t, run.Errors, got.Errors)
	assert.Equal(t, run.FinalDocumentPath, got.FinalDocumentPath)

	records, err := s.Sections(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Approved)
	assert.False(t, records[1].Approved)
	require.Len(t, records[1].Issues, 1)
	assert.Equal(t, types.SeverityError, records[1].Issues[0].Severity)
	assert.Equal(t, types.CategoryInadequateLevel, records[1].Issues[0].MisconductCategory)
}

func TestListRunsNewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := types.RunRecord{
			ID:          fmt.Sprintf("run-%d", i),
			CourseTitle: "Course",
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
			Success:     true,
		}
		require.NoError(t, s.SaveRun(ctx, run, nil))
	}

	runs, err := s.ListRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "run-4", runs[0].ID)
	assert.Equal(t, "run-3", runs[1].ID)
	assert.Equal(t, "run-2", runs[2].ID)
}

func TestDuplicateRunIDRejected(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	run := types.RunRecord{ID: "run-1", CourseTitle: "Course", StartedAt: time.Now()}
	require.NoError(t, s.SaveRun(ctx, run, nil))
	require.Error(t, s.SaveRun(ctx, run, nil))
}

func TestSectionsForUnknownRun(t *testing.T) {
	s := testStore(t)
	records, err := s.Sections(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	s, err := NewStore(types.StoreConfig{DataDir: dataDir})
	require.NoError(t, err)
	run := types.RunRecord{ID: "run-1", CourseTitle: "Course", StartedAt: time.Now().UTC()}
	require.NoError(t, s.SaveRun(ctx, run, nil))
	require.NoError(t, s.Close())

	s, err = NewStore(types.StoreConfig{DataDir: dataDir})
	require.NoError(t, err)
	defer s.Close()

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
}
