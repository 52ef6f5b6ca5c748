// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/transcript-engine/internal/assess"
	"github.com/pdiddy/transcript-engine/internal/consensus"
	"github.com/pdiddy/transcript-engine/internal/edit"
	"github.com/pdiddy/transcript-engine/internal/finalize"
	"github.com/pdiddy/transcript-engine/internal/llm"
	"github.com/pdiddy/transcript-engine/internal/research"
	"github.com/pdiddy/transcript-engine/internal/store"
	"github.com/pdiddy/transcript-engine/internal/syllabus"
	"github.com/pdiddy/transcript-engine/internal/workflow"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate <syllabus.yaml>",
	Short: "Run the full research, editing, and finalization pipeline",
	Long: `Generate drives a syllabus through all three pipeline phases and writes
the compiled document, per-section quality records, and the quality summary.
Section-level research failures are reported as warnings; editing and
finalization failures abort the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	syl, err := syllabus.Load(args[0])
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := newLogger(verbose)

	cfg := pipelineConfigFromFlags(cmd)
	model, err := llm.NewOpenAI(cfg.Assessment.AIConfig)
	if err != nil {
		return err
	}
	client := llm.WithRetries(model, cfg.Assessment.MaxRetries)

	var co *consensus.Orchestrator
	if cfg.Assessment.UseConsensus {
		co, err = consensus.New(assess.NewRegistry(client), cfg.Assessment.PoolSize)
		if err != nil {
			return err
		}
	}
	finalizer := finalize.New(cfg.Finalizer, co, logger)

	researcher, err := research.New(client)
	if err != nil {
		return err
	}
	editor, err := edit.New(client)
	if err != nil {
		return err
	}

	orchestrator, err := workflow.New(workflow.Config{
		Logger:     logger,
		Researcher: researcher,
		Editor:     editor,
		Finalizer:  finalizer,
		Workflow:   cfg.Workflow,
		OutputDir:  cfg.Finalizer.OutputDir,
	})
	if err != nil {
		return err
	}

	startedAt := time.Now()
	result := orchestrator.Run(context.Background(), *syl)

	if err := saveRun(cfg.Store, *syl, startedAt, result, finalizer.Records()); err != nil {
		// History is best-effort; the run itself already finished.
		logger.Warn("saving run history failed", "error", err)
	}

	printResult(result)
	if !result.Success {
		return fmt.Errorf("pipeline failed")
	}
	return nil
}

func saveRun(cfg types.StoreConfig, syl types.Syllabus, startedAt time.Time, result types.WorkflowResult, sections []types.SectionQualityRecord) error {
	s, err := store.NewStore(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	run := types.RunRecord{
		ID:                   uuid.NewString(),
		CourseTitle:          syl.CourseTitle,
		StartedAt:            startedAt,
		Success:              result.Success,
		ExecutionTimeSeconds: result.ExecutionTimeSeconds,
		Errors:               result.Errors,
		FinalDocumentPath:    result.FinalDocumentPath,
		QualityReportPath:    result.QualityReportPath,
	}
	return s.SaveRun(context.Background(), run, sections)
}

func printResult(result types.WorkflowResult) {
	status := "succeeded"
	if !result.Success {
		status = "failed"
	}
	fmt.Printf("Pipeline %s in %.1fs\n", status, result.ExecutionTimeSeconds)
	if result.FinalDocumentPath != "" {
		fmt.Println("  document:", result.FinalDocumentPath)
	}
	if result.QualityReportPath != "" {
		fmt.Println("  report:  ", result.QualityReportPath)
	}
	for _, warning := range result.Errors {
		fmt.Println("  warning: ", warning)
	}
	if score, ok := result.QualityMetrics["quality_score"]; ok {
		fmt.Printf("  quality score: %.2f\n", score)
	}
}

// pipelineConfigFromFlags merges flags over viper-provided defaults.
func pipelineConfigFromFlags(cmd *cobra.Command) types.PipelineConfig {
	modelName, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	useConsensus, _ := cmd.Flags().GetBool("consensus")
	continueOnErrors, _ := cmd.Flags().GetBool("continue-on-errors")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	qualityDir, _ := cmd.Flags().GetString("quality-dir")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	researchTimeout, _ := cmd.Flags().GetDuration("research-timeout")
	editingTimeout, _ := cmd.Flags().GetDuration("editing-timeout")
	finalizationTimeout, _ := cmd.Flags().GetDuration("finalization-timeout")

	return types.PipelineConfig{
		Assessment: types.AssessmentConfig{
			AIConfig: types.AIConfig{
				Model:  modelName,
				APIKey: secretDefault("openai-api-key", apiKey),
			},
			UseConsensus: useConsensus,
		},
		Finalizer: types.FinalizerConfig{
			OutputDir:  outputDir,
			QualityDir: qualityDir,
		},
		Workflow: types.WorkflowConfig{
			ResearchTimeout:     researchTimeout,
			EditingTimeout:      editingTimeout,
			FinalizationTimeout: finalizationTimeout,
			ContinueOnErrors:    continueOnErrors,
			MaxRetries:          maxRetries,
		},
		Store: types.StoreConfig{DataDir: dataDir},
	}
}

func init() {
	generateCmd.Flags().String("model", "gpt-4o-mini", "AI model identifier")
	generateCmd.Flags().String("api-key", "", "AI API key (default: .secrets/openai-api-key)")
	generateCmd.Flags().Bool("consensus", true, "use multi-agent consensus assessment (false = basic pattern matching)")
	generateCmd.Flags().Bool("continue-on-errors", true, "continue when individual sections fail research")
	generateCmd.Flags().Int("max-retries", 0, "research phase-entry retry budget")
	generateCmd.Flags().String("output-dir", "output", "directory for the final document artifacts")
	generateCmd.Flags().String("quality-dir", "quality", "directory for quality records and the summary")
	generateCmd.Flags().String("data-dir", "runs", "directory for the run-history database")
	generateCmd.Flags().Duration("research-timeout", 10*time.Minute, "total research phase timeout")
	generateCmd.Flags().Duration("editing-timeout", 10*time.Minute, "editing phase timeout")
	generateCmd.Flags().Duration("finalization-timeout", 5*time.Minute, "finalization phase timeout")

	rootCmd.AddCommand(generateCmd)
}
