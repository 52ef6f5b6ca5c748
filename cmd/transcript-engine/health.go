// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transcript-engine/internal/edit"
	"github.com/pdiddy/transcript-engine/internal/finalize"
	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/internal/research"
	"github.com/pdiddy/transcript-engine/internal/workflow"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check pipeline preconditions without running it",
	Long: `Health verifies that the output directories are writable and that the
research, editing, and finalization components can be constructed. It makes
no model calls and runs no phase.`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	qualityDir, _ := cmd.Flags().GetString("quality-dir")
	apiKey, _ := cmd.Flags().GetString("api-key")
	modelName, _ := cmd.Flags().GetString("model")

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg := workflow.Config{
		Logger:    logger,
		OutputDir: outputDir,
		Finalizer: finalize.New(types.FinalizerConfig{OutputDir: outputDir, QualityDir: qualityDir}, nil, logger),
	}

	// Construct the model-backed collaborators the same way generate does,
	// so a missing API key surfaces here instead of mid-run.
	model, err := llm.NewOpenAI(types.AIConfig{
		Model:  modelName,
		APIKey: secretDefault("openai-api-key", apiKey),
	})
	if err != nil {
		fmt.Println("model client:", err)
	} else {
		if cfg.Researcher, err = research.New(model); err != nil {
			fmt.Println("researcher:", err)
		}
		if cfg.Editor, err = edit.New(model); err != nil {
			fmt.Println("editor:", err)
		}
	}

	h := workflow.CheckHealth(cfg)
	fmt.Printf("output dir writable: %v\n", h.OutputDirWritable)
	fmt.Printf("researcher ready:    %v\n", h.ResearcherReady)
	fmt.Printf("editor ready:        %v\n", h.EditorReady)
	fmt.Printf("finalizer ready:     %v\n", h.FinalizerReady)
	for _, problem := range h.Problems {
		fmt.Println("problem:", problem)
	}
	if !h.OK() {
		return fmt.Errorf("health check failed")
	}
	fmt.Println("ok")
	return nil
}

func init() {
	healthCmd.Flags().String("output-dir", "output", "directory for the final document artifacts")
	healthCmd.Flags().String("quality-dir", "quality", "directory for quality records and the summary")
	healthCmd.Flags().String("model", "gpt-4o-mini", "AI model identifier")
	healthCmd.Flags().String("api-key", "", "AI API key (default: .secrets/openai-api-key)")

	rootCmd.AddCommand(healthCmd)
}
