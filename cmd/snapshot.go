package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/tacho-tracker/internal/metrics"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Persist the open day's summary and refresh the metrics textfile",
	Long: `snapshot recomputes the summary of the open day so weekly figures stay
current while a status runs. It is meant to be called periodically, e.g.
from cron. When [metrics] textfile is configured the reading is also written
there for the node_exporter textfile collector.`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	now := time.Now()

	day, saved, err := app.tk.Snapshot(now)
	if err != nil {
		fail(err)
	}
	if saved {
		fmt.Printf("Day %s: drive %s, amplitude %s.\n", day.Date,
			timecalc.FormatMinutes(day.Stats.TotalDriveMinutes),
			timecalc.FormatMinutes(day.Stats.AmplitudeMinutes))
	} else {
		fmt.Println("No open duty status; nothing to snapshot.")
	}

	path := app.cfg.Metrics.Textfile
	if path == "" {
		return nil
	}
	r, err := app.tk.Evaluate(now)
	if err != nil {
		fail(err)
	}
	g := metrics.New()
	g.Observe(r.Eval, r.App.Active())
	if err := g.WriteTextfile(path); err != nil {
		fail(fmt.Errorf("writing metrics textfile %s: %w", path, err))
	}
	app.log.Debug("metrics written", zap.String("path", path))
	return nil
}
