// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transcript-engine/internal/assess"
	"github.com/pdiddy/transcript-engine/internal/consensus"
	"github.com/pdiddy/transcript-engine/internal/finalize"
	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/internal/syllabus"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

var finalizeCmd = &cobra.Command{
	Use:   "finalize <drafts-dir>",
	Short: "Run editorial finalization standalone over existing drafts",
	Long: `Finalize reads Markdown drafts from a directory (one file per section,
filename = section id), assesses them, and writes the compiled document plus
quality artifacts. With --syllabus, section specs guide the alignment and
depth assessments. Without --consensus the basic pattern-matching path runs,
which needs no API key.`,
	Args: cobra.ExactArgs(1),
	RunE: runFinalize,
}

func runFinalize(cmd *cobra.Command, args []string) error {
	units, err := loadDrafts(args[0])
	if err != nil {
		return err
	}

	var syl *types.Syllabus
	if path, _ := cmd.Flags().GetString("syllabus"); path != "" {
		syl, err = syllabus.Load(path)
		if err != nil {
			return err
		}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	outputDir, _ := cmd.Flags().GetString("output-dir")
	qualityDir, _ := cmd.Flags().GetString("quality-dir")

	var co *consensus.Orchestrator
	if useConsensus, _ := cmd.Flags().GetBool("consensus"); useConsensus {
		modelName, _ := cmd.Flags().GetString("model")
		apiKey, _ := cmd.Flags().GetString("api-key")
		model, err := llm.NewOpenAI(types.AIConfig{
			Model:  modelName,
			APIKey: secretDefault("openai-api-key", apiKey),
		})
		if err != nil {
			return err
		}
		co, err = consensus.New(assess.NewRegistry(llm.WithRetries(model, 0)), 0)
		if err != nil {
			return err
		}
	}

	finalizer := finalize.New(types.FinalizerConfig{OutputDir: outputDir, QualityDir: qualityDir}, co, logger)
	docPath, reportPath, err := finalizer.Finalize(context.Background(), units, syl)
	if err != nil {
		return err
	}

	fmt.Println("document:", docPath)
	fmt.Println("report:  ", reportPath)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(finalizer.QualityMetrics())
	}
	return nil
}

// loadDrafts reads every .md file in dir as one content unit. The filename
// (without extension) is the section id; a leading H1/H2 becomes the title.
func loadDrafts(dir string) ([]types.ContentUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading drafts directory: %w", err)
	}

	var units []types.ContentUnit
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading draft %s: %w", entry.Name(), err)
		}
		id := strings.TrimSuffix(entry.Name(), ".md")
		title, body := splitTitle(string(data))
		units = append(units, types.ContentUnit{ID: id, Title: title, Text: body})
	}
	sort.Slice(units, func(i, j int) bool { return units[i].ID < units[j].ID })

	if len(units) == 0 {
		return nil, fmt.Errorf("no .md drafts found in %s", dir)
	}
	return units, nil
}

// splitTitle peels a leading Markdown heading off a draft, if present.
func splitTitle(text string) (title, body string) {
	trimmed := strings.TrimLeft(text, "\n")
	if strings.HasPrefix(trimmed, "# ") || strings.HasPrefix(trimmed, "## ") {
		line, rest, _ := strings.Cut(trimmed, "\n")
		return strings.TrimSpace(strings.TrimLeft(line, "#")), strings.TrimLeft(rest, "\n")
	}
	return "", text
}

func init() {
	finalizeCmd.Flags().String("syllabus", "", "syllabus file providing section specs")
	finalizeCmd.Flags().Bool("consensus", false, "use multi-agent consensus assessment")
	finalizeCmd.Flags().String("model", "gpt-4o-mini", "AI model identifier (consensus mode)")
	finalizeCmd.Flags().String("api-key", "", "AI API key (default: .secrets/openai-api-key)")
	finalizeCmd.Flags().String("output-dir", "output", "directory for the final document artifacts")
	finalizeCmd.Flags().String("quality-dir", "quality", "directory for quality records and the summary")
	finalizeCmd.Flags().Bool("json", false, "print quality metrics as JSON")

	rootCmd.AddCommand(finalizeCmd)
}
