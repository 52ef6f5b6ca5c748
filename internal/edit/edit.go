// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package edit implements the editing phase collaborator: one model call
// drafting every section from the aggregated research notes. Thin glue over
// the llm package.
package edit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

const systemPrompt = `You are a course editor. Draft the content for every section below
from its research notes. Respond with a single JSON object mapping section id to the
drafted Markdown content: {"<section_id>": "<content>", ...}.`

// Editor drafts all sections in a single model call.
type Editor struct {
	model llm.Client
}

// New builds an Editor over the given model client.
func New(model llm.Client) (*Editor, error) {
	if model == nil {
		return nil, errors.New("model client is required")
	}
	return &Editor{model: model}, nil
}

// Edit produces a draft per section id from the aggregated notes.
func (e *Editor) Edit(ctx context.Context, notes map[string]types.ResearchNotes, syllabus types.Syllabus) (map[string]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s\n\n", syllabus.CourseTitle)
	for _, spec := range syllabus.Sections {
		n, ok := notes[spec.SectionID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s (%s)\n", spec.Title, spec.SectionID)
		if spec.DifficultyLevel != "" {
			fmt.Fprintf(&b, "Difficulty: %s\n", spec.DifficultyLevel)
		}
		fmt.Fprintf(&b, "Notes: %s\n", n.Summary)
		for _, p := range n.KeyPoints {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}

	raw, err := e.model.Complete(ctx, systemPrompt, b.String())
	if err != nil {
		return nil, fmt.Errorf("drafting sections: %w", err)
	}

	drafts := make(map[string]string)
	if err := json.Unmarshal([]byte(extractJSON(raw)), &drafts); err != nil {
		return nil, fmt.Errorf("parsing drafts: %w", err)
	}
	return drafts, nil
}

func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if i := strings.Index(s, "{"); i >= 0 {
		if j := strings.LastIndex(s, "}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}
