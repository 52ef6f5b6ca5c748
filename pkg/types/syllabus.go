// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the transcript-engine
// pipeline: the syllabus input, research notes and content units flowing
// between phases, quality assessment results, and the workflow result.
// See docs/ARCHITECTURE.md § Data Structures.
package types

// SectionSpec declares one section of a course syllabus: what the drafted
// content for that section is expected to cover.
type SectionSpec struct {
	// SectionID uniquely identifies the section within a syllabus.
	SectionID string `json:"section_id" yaml:"section_id"`

	// Title is the section heading used in the final document.
	Title string `json:"title" yaml:"title"`

	// LearningObjectives lists what a learner should take away.
	LearningObjectives []string `json:"learning_objectives,omitempty" yaml:"learning_objectives,omitempty"`

	// KeyTopics lists the topics the section content must cover.
	KeyTopics []string `json:"key_topics,omitempty" yaml:"key_topics,omitempty"`

	// DifficultyLevel is a free-form level hint: beginner, intermediate, advanced.
	DifficultyLevel string `json:"difficulty_level,omitempty" yaml:"difficulty_level,omitempty"`

	// TargetAudience describes who the section is written for.
	TargetAudience string `json:"target_audience,omitempty" yaml:"target_audience,omitempty"`
}

// Syllabus is the declarative course specification driving a pipeline run.
type Syllabus struct {
	// CourseTitle is the title of the whole course.
	CourseTitle string `json:"course_title" yaml:"course_title"`

	// Sections lists the course sections in document order.
	Sections []SectionSpec `json:"sections" yaml:"sections"`
}

// Section returns the SectionSpec with the given id, or nil if absent.
func (s *Syllabus) Section(id string) *SectionSpec {
	for i := range s.Sections {
		if s.Sections[i].SectionID == id {
			return &s.Sections[i]
		}
	}
	return nil
}
