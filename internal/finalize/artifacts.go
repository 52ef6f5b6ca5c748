// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package finalize

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/pdiddy/transcript-engine/pkg/types"
)

// Artifact filenames within the configured directories.
const (
	documentJSONFile = "final_document.json"
	documentMDFile   = "final_document.md"
	documentHTMLFile = "final_document.html"
	summaryFile      = "quality_summary.json"
)

// writeSectionRecord persists one section's quality record as
// qualityDir/<section_id>_quality.json.
func (f *Finalizer) writeSectionRecord(record types.SectionQualityRecord) error {
	if err := os.MkdirAll(f.cfg.QualityDir, 0o755); err != nil {
		return fmt.Errorf("creating quality directory: %w", err)
	}
	path := filepath.Join(f.cfg.QualityDir, record.SectionID+"_quality.json")
	if err := writeJSON(path, record); err != nil {
		return fmt.Errorf("writing quality record for %s: %w", record.SectionID, err)
	}
	return nil
}

// writeSummary persists the run-level quality summary and returns its path.
func (f *Finalizer) writeSummary(summary types.QualitySummary) (string, error) {
	if err := os.MkdirAll(f.cfg.QualityDir, 0o755); err != nil {
		return "", fmt.Errorf("creating quality directory: %w", err)
	}
	path := filepath.Join(f.cfg.QualityDir, summaryFile)
	if err := writeJSON(path, summary); err != nil {
		return "", fmt.Errorf("writing quality summary: %w", err)
	}
	return path, nil
}

// writeDocument persists the final document as JSON plus Markdown and HTML
// renderings, returning the JSON artifact path.
func (f *Finalizer) writeDocument(doc types.FinalDocument) (string, error) {
	if err := os.MkdirAll(f.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	jsonPath := filepath.Join(f.cfg.OutputDir, documentJSONFile)
	if err := writeJSON(jsonPath, doc); err != nil {
		return "", fmt.Errorf("writing final document: %w", err)
	}

	md := renderMarkdown(doc)
	mdPath := filepath.Join(f.cfg.OutputDir, documentMDFile)
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return "", fmt.Errorf("writing markdown document: %w", err)
	}

	var html bytes.Buffer
	if err := goldmark.Convert([]byte(md), &html); err != nil {
		return "", fmt.Errorf("rendering html document: %w", err)
	}
	htmlPath := filepath.Join(f.cfg.OutputDir, documentHTMLFile)
	if err := os.WriteFile(htmlPath, html.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing html document: %w", err)
	}

	return jsonPath, nil
}

// renderMarkdown produces the human-readable document: course title, then
// each section as a heading plus body, separated by horizontal rules.
func renderMarkdown(doc types.FinalDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", doc.CourseTitle)
	for _, section := range doc.Sections {
		b.WriteString("\n---\n\n")
		fmt.Fprintf(&b, "## %s\n\n", section.Title)
		b.WriteString(strings.TrimRight(section.Content, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
