// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ResearchNotes holds the research phase output for one section.
type ResearchNotes struct {
	// SectionID identifies the section the notes were gathered for.
	SectionID string `json:"section_id" yaml:"section_id"`

	// Summary is a prose condensation of the gathered material.
	Summary string `json:"summary" yaml:"summary"`

	// KeyPoints lists discrete facts and angles for the editor to use.
	KeyPoints []string `json:"key_points,omitempty" yaml:"key_points,omitempty"`
}

// ContentUnit is one unit of drafted content to be assessed and finalized.
// Units are created by the editing phase and read-only afterwards.
type ContentUnit struct {
	// ID is unique within a run; it matches the syllabus section id.
	ID string `json:"id" yaml:"id"`

	// Title is the unit heading. May be empty when the draft carries none.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Text is the drafted content body.
	Text string `json:"text" yaml:"text"`
}

// DocumentSection is one rendered section of the final compiled document.
type DocumentSection struct {
	SectionID string `json:"section_id" yaml:"section_id"`
	Title     string `json:"title" yaml:"title"`
	Content   string `json:"content" yaml:"content"`
}

// FinalDocument is the compiled output of a pipeline run: the course title
// plus every drafted section in syllabus order. Flagged sections are still
// included; quality issues are reported out of band.
type FinalDocument struct {
	CourseTitle string            `json:"course_title" yaml:"course_title"`
	Sections    []DocumentSection `json:"sections" yaml:"sections"`
}
