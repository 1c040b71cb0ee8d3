package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

var stopAt string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Close the open status and end the day",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopAt, "at", "", "Backdate the stop to HH:MM today")
}

func runStop(cmd *cobra.Command, args []string) error {
	at := resolveAt(stopAt, time.Now())

	tr, day, err := app.tk.Stop(at)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Stopped %s. Elapsed: %s\n", tr.From, formatElapsed(at.Sub(tr.Closed.Start)))
	s := day.Stats
	fmt.Printf("Day %s: drive %s, work %s, available %s, rest %s, amplitude %s\n",
		day.Date,
		timecalc.FormatMinutes(s.TotalDriveMinutes),
		timecalc.FormatMinutes(s.TotalWorkMinutes),
		timecalc.FormatMinutes(s.TotalAvailableMinutes),
		timecalc.FormatMinutes(s.TotalRestMinutes),
		timecalc.FormatMinutes(s.AmplitudeMinutes),
	)
	return nil
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
