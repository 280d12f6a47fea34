package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jverbeke/pitchplan/config"
	"github.com/jverbeke/pitchplan/core/solver"
	"github.com/jverbeke/pitchplan/infra/logger"
	"github.com/jverbeke/pitchplan/internal/eventbus"
	"github.com/jverbeke/pitchplan/jobs"
	"github.com/jverbeke/pitchplan/metrics"
	"github.com/jverbeke/pitchplan/pkg/planfile"
	"github.com/jverbeke/pitchplan/progress"
)

var planPath string

var solveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Solve a weekly schedule from a plan file",
	RunE:  runSolve,
}

func init() {
	solveCmd.Flags().StringVarP(&planPath, "plan", "p", "plan.yaml", "plan file with fields, teams and demands")
	rootCmd.AddCommand(solveCmd)
}

func runSolve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetGlobalLevel(cfg.Logging.Level); err != nil {
		return err
	}
	log := logger.New("solve-command")

	in, _, err := planfile.Load(planPath)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}

	sink, err := metrics.NewSink(cfg.Metrics, log)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}

	var bus *eventbus.Bus[progress.Snapshot]
	var streamed <-chan struct{}
	if cfg.Progress.Enabled {
		pub, err := progress.NewMQTTPublisher(cfg.Progress, logger.New("progress"))
		if err != nil {
			return fmt.Errorf("progress publisher: %w", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				log.Errorf("publisher close: %v", err)
			}
		}()
		bus = eventbus.New[progress.Snapshot]()
		streamed = progress.Stream(bus, pub, log)
	}

	registry := jobs.NewRegistry()
	job, err := registry.Run(ctx, solver.New(log), in, cfg.Solver, bus)
	if bus != nil {
		bus.Close()
		<-streamed
	}
	if err != nil {
		return err
	}

	res := job.Result
	conflicts := len(res.Diagnostics)
	if err := sink.RecordSolve(metrics.SolveRecord{
		Status:    res.Status,
		Duration:  res.Elapsed,
		Entries:   len(res.Entries),
		Solutions: res.Solutions,
		Conflicts: conflicts,
	}); err != nil {
		log.Errorf("record solve: %v", err)
	}

	for _, d := range res.Diagnostics {
		log.Warnf("%s: %s", d.Kind, d.Message)
	}
	out := struct {
		Job    string `json:"job_id"`
		Status string `json:"status"`
		Result any    `json:"result"`
	}{Job: job.ID, Status: res.Status.String(), Result: res.Entries}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
