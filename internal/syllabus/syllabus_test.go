// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package syllabus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

func writeSyllabus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "syllabus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeSyllabus(t, `
course_title: "Distributed Systems Basics"
sections:
  - section_id: s1
    title: "Consensus"
    difficulty_level: intermediate
    key_topics:
      - leader election
      - log replication
    learning_objectives:
      - explain why a quorum is needed
  - section_id: s2
    title: "Replication"
`)

	syl, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Distributed Systems Basics", syl.CourseTitle)
	require.Len(t, syl.Sections, 2)
	assert.Equal(t, "intermediate", syl.Sections[0].DifficultyLevel)
	assert.Equal(t, []string{"leader election", "log replication"}, syl.Sections[0].KeyTopics)

	spec := syl.Section("s2")
	require.NotNil(t, spec)
	assert.Equal(t, "Replication", spec.Title)
	assert.Nil(t, syl.Section("missing"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeSyllabus(t, "course_title: [unterminated")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *types.Syllabus {
		return &types.Syllabus{
			CourseTitle: "Course",
			Sections: []types.SectionSpec{
				{SectionID: "s1", Title: "One"},
				{SectionID: "s2", Title: "Two"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*types.Syllabus)
		wantErr string
	}{
		{"valid", func(*types.Syllabus) {}, ""},
		{"no course title", func(s *types.Syllabus) { s.CourseTitle = "" }, "course_title"},
		{"no sections", func(s *types.Syllabus) { s.Sections = nil }, "at least one section"},
		{"empty section id", func(s *types.Syllabus) { s.Sections[1].SectionID = "" }, "no section_id"},
		{"duplicate section id", func(s *types.Syllabus) { s.Sections[1].SectionID = "s1" }, "duplicate"},
		{"missing title", func(s *types.Syllabus) { s.Sections[0].Title = "" }, "no title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syl := valid()
			tt.mutate(syl)
			err := Validate(syl)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
