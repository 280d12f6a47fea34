package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jverbeke/pitchplan/core/fieldtree"
	"github.com/jverbeke/pitchplan/core/model"
	"github.com/jverbeke/pitchplan/core/report"
	"github.com/jverbeke/pitchplan/pkg/planfile"
)

var (
	checkPlanPath string
	schedulePath  string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report conflicts and weekday quality for an existing schedule",
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkPlanPath, "plan", "p", "plan.yaml", "plan file with the field hierarchy")
	checkCmd.Flags().StringVarP(&schedulePath, "schedule", "s", "schedule.json", "schedule entries to analyse")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	in, _, err := planfile.Load(checkPlanPath)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	tree, err := fieldtree.Build(in.Fields)
	if err != nil {
		return fmt.Errorf("field tree: %w", err)
	}

	b, err := os.ReadFile(schedulePath)
	if err != nil {
		return err
	}
	var entries []model.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return fmt.Errorf("decode schedule: %w", err)
	}

	rep := report.Analyze(tree, entries)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
