// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/transcript-engine/internal/store"
	"github.com/pdiddy/transcript-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List past pipeline runs from the run-history database",
	Long: `Runs lists past pipeline runs, newest first. With a run id it shows that
run's per-section quality verdicts instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRuns,
}

func runRuns(cmd *cobra.Command, args []string) error {
	dataDir, _ := cmd.Flags().GetString("data-dir")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	s, err := store.NewStore(types.StoreConfig{DataDir: dataDir})
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		return printSections(s, args[0], jsonOutput)
	}

	runs, err := s.ListRuns(context.Background(), limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	fmt.Printf("%-36s  %-19s  %-7s  %8s  %s\n", "Run", "Started", "Status", "Elapsed", "Course")
	fmt.Println(strings.Repeat("-", 90))
	for _, run := range runs {
		status := "ok"
		if !run.Success {
			status = "failed"
		}
		title := run.CourseTitle
		if len(title) > 30 {
			title = title[:27] + "..."
		}
		fmt.Printf("%-36s  %-19s  %-7s  %7.1fs  %s\n",
			run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), status,
			run.ExecutionTimeSeconds, title)
	}
	fmt.Printf("\n%d runs\n", len(runs))
	return nil
}

// printSections shows one run's per-section quality verdicts.
func printSections(s *store.Store, runID string, jsonOutput bool) error {
	records, err := s.Sections(context.Background(), runID)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Printf("No sections recorded for run %s.\n", runID)
		return nil
	}

	fmt.Printf("%-20s  %-8s  %s\n", "Section", "Verdict", "Issues")
	fmt.Println(strings.Repeat("-", 50))
	for _, record := range records {
		verdict := "approved"
		if !record.Approved {
			verdict = "rejected"
		}
		fmt.Printf("%-20s  %-8s  %d\n", record.SectionID, verdict, len(record.Issues))
		for _, issue := range record.Issues {
			fmt.Printf("    [%s] %s: %s\n", issue.Severity, issue.MisconductCategory, issue.Description)
		}
	}
	return nil
}

func init() {
	runsCmd.Flags().String("data-dir", "runs", "directory for the run-history database")
	runsCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default)")
	runsCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(runsCmd)
}
