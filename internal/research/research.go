// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research implements the research phase collaborator: it gathers
// notes for one syllabus section via the AI model. Thin glue over the llm
// package; the orchestrator treats it as a black box.
package research

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

const systemPrompt = `You are a research assistant preparing notes for a training-course section.
Respond with a single JSON object: {"summary": "...", "key_points": ["...", "..."]}.`

// Researcher produces research notes for syllabus sections using the model.
type Researcher struct {
	model llm.Client
}

// New builds a Researcher over the given model client.
func New(model llm.Client) (*Researcher, error) {
	if model == nil {
		return nil, errors.New("model client is required")
	}
	return &Researcher{model: model}, nil
}

// Research gathers notes for one section. Safe to retry; no side effects.
func (r *Researcher) Research(ctx context.Context, spec types.SectionSpec) (types.ResearchNotes, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Section: %s\n", spec.Title)
	if len(spec.KeyTopics) > 0 {
		fmt.Fprintf(&b, "Key topics: %s\n", strings.Join(spec.KeyTopics, "; "))
	}
	if len(spec.LearningObjectives) > 0 {
		fmt.Fprintf(&b, "Learning objectives: %s\n", strings.Join(spec.LearningObjectives, "; "))
	}
	if spec.TargetAudience != "" {
		fmt.Fprintf(&b, "Target audience: %s\n", spec.TargetAudience)
	}

	raw, err := r.model.Complete(ctx, systemPrompt, b.String())
	if err != nil {
		return types.ResearchNotes{}, fmt.Errorf("researching section %s: %w", spec.SectionID, err)
	}

	var parsed struct {
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		// A non-JSON response still carries usable prose.
		parsed.Summary = strings.TrimSpace(raw)
	}
	if parsed.Summary == "" && len(parsed.KeyPoints) == 0 {
		return types.ResearchNotes{}, fmt.Errorf("empty research notes for section %s", spec.SectionID)
	}

	return types.ResearchNotes{
		SectionID: spec.SectionID,
		Summary:   parsed.Summary,
		KeyPoints: parsed.KeyPoints,
	}, nil
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
