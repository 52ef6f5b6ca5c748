// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package syllabus loads and validates the declarative course specification
// driving a pipeline run.
package syllabus

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Load reads and validates a syllabus YAML file.
func Load(path string) (*types.Syllabus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading syllabus: %w", err)
	}
	var syl types.Syllabus
	if err := yaml.Unmarshal(data, &syl); err != nil {
		return nil, fmt.Errorf("parsing syllabus: %w", err)
	}
	if err := Validate(&syl); err != nil {
		return nil, err
	}
	return &syl, nil
}

// Validate checks structural invariants: a course title, at least one
// section, and unique non-empty section ids.
func Validate(syl *types.Syllabus) error {
	if syl.CourseTitle == "" {
		return fmt.Errorf("syllabus: course_title is required")
	}
	if len(syl.Sections) == 0 {
		return fmt.Errorf("syllabus: at least one section is required")
	}
	seen := make(map[string]bool, len(syl.Sections))
	for i, spec := range syl.Sections {
		if spec.SectionID == "" {
			return fmt.Errorf("syllabus: section %d has no section_id", i)
		}
		if seen[spec.SectionID] {
			return fmt.Errorf("syllabus: duplicate section_id %q", spec.SectionID)
		}
		seen[spec.SectionID] = true
		if spec.Title == "" {
			return fmt.Errorf("syllabus: section %q has no title", spec.SectionID)
		}
	}
	return nil
}
