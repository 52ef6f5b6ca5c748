// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package edit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

var syl = types.Syllabus{
	CourseTitle: "Course",
	Sections: []types.SectionSpec{
		{SectionID: "s1", Title: "One", DifficultyLevel: "beginner"},
		{SectionID: "s2", Title: "Two"},
	},
}

var notes = map[string]types.ResearchNotes{
	"s1": {SectionID: "s1", Summary: "notes one", KeyPoints: []string{"point a"}},
	"s2": {SectionID: "s2", Summary: "notes two"},
}

func TestEditParsesDraftMap(t *testing.T) {
	model := llm.Func(func(_ context.Context, _, user string) (string, error) {
		assert.Contains(t, user, "## One (s1)")
		assert.Contains(t, user, "Difficulty: beginner")
		assert.Contains(t, user, "- point a")
		return "```json\n{\"s1\": \"Draft one.\", \"s2\": \"Draft two.\"}\n```", nil
	})
	e, err := New(model)
	require.NoError(t, err)

	drafts, err := e.Edit(context.Background(), notes, syl)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"s1": "Draft one.", "s2": "Draft two."}, drafts)
}

func TestEditSkipsSectionsWithoutNotes(t *testing.T) {
	var prompt string
	model := llm.Func(func(_ context.Context, _, user string) (string, error) {
		prompt = user
		return `{"s1": "Draft one."}`, nil
	})
	e, err := New(model)
	require.NoError(t, err)

	_, err = e.Edit(context.Background(), map[string]types.ResearchNotes{"s1": notes["s1"]}, syl)
	require.NoError(t, err)
	assert.Contains(t, prompt, "(s1)")
	assert.NotContains(t, prompt, "(s2)")
}

func TestEditRejectsNonJSONResponse(t *testing.T) {
	model := llm.Func(func(_ context.Context, _, _ string) (string, error) {
		return "Here are your drafts, nicely formatted as prose.", nil
	})
	e, err := New(model)
	require.NoError(t, err)

	_, err = e.Edit(context.Background(), notes, syl)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing drafts")
}

func TestEditPropagatesModelError(t *testing.T) {
	model := llm.Func(func(_ context.Context, _, _ string) (string, error) {
		return "", errors.New("overloaded")
	})
	e, err := New(model)
	require.NoError(t, err)

	_, err = e.Edit(context.Background(), notes, syl)
	require.Error(t, err)
}

func TestNewRequiresModel(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}
