package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/render"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

var (
	statusWatch bool
	statusJSON  bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show live counters, the break timer and compliance checks",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&statusWatch, "watch", false, "Refresh until interrupted")
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Print the reading as JSON")
}

func runStatus(cmd *cobra.Command, args []string) error {
	if !statusWatch {
		printStatus(os.Stdout, time.Now())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := app.cfg.Watch.PollInterval
	app.log.Info("watch started", zap.Duration("poll_interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !statusJSON && term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Print("\033[H\033[2J")
		}
		printStatus(os.Stdout, time.Now())
		select {
		case <-ctx.Done():
			app.log.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func printStatus(w io.Writer, now time.Time) {
	r, err := app.tk.Evaluate(now)
	if err != nil {
		fail(err)
	}
	if statusJSON {
		if err := writeStatusJSON(w, r); err != nil {
			fail(err)
		}
		return
	}
	writeStatus(w, r, now, app.cfg.Limits)
}

type statusDoc struct {
	Status string                `json:"status"`
	Since  *time.Time            `json:"since,omitempty"`
	Day    string                `json:"day"`
	Eval   compliance.Evaluation `json:"evaluation"`
}

func writeStatusJSON(w io.Writer, r tracker.Reading) error {
	doc := statusDoc{Status: string(r.App.CurrentStatus), Day: r.Day.Date, Eval: r.Eval}
	if r.App.Active() {
		since := r.App.LastStatusChange
		doc.Since = &since
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeStatus prints the human-readable reading.
func writeStatus(w io.Writer, r tracker.Reading, now time.Time, limits compliance.Limits) {
	limits = limits.WithDefaults()
	ev := r.Eval

	if r.App.Active() {
		since := r.App.LastStatusChange
		fmt.Fprintf(w, "%s since %s (elapsed %s)\n", render.Status(r.App.CurrentStatus), since.Format("15:04"), formatElapsed(now.Sub(since)))
	} else {
		fmt.Fprintln(w, "No open duty status.")
	}
	fmt.Fprintf(w, "Day %s\n", r.Day.Date)

	fmt.Fprintf(w, "  %s%s / %s\n", label("Continuous drive"), timecalc.FormatMinutes(ev.State.ContinuousDriveMinutes), timecalc.FormatMinutes(limits.DriveCap))
	fmt.Fprintf(w, "  %s%s / %s\n", label("Continuous service"), timecalc.FormatMinutes(ev.State.ContinuousServiceMinutes), timecalc.FormatMinutes(limits.ServiceCap))
	fmt.Fprintf(w, "  %s%s %s\n", label("Break"), render.Bar(ev.Timer.UsedPercent(limits), 20, ev.Timer.Severity), breakLine(ev.Timer))
	if ev.State.SplitBreakPending {
		fmt.Fprintf(w, "  %s%s\n", label("Split break"), render.Muted(fmt.Sprintf("first part taken, %dm completes it", limits.PartialBreak)))
	}
	if ev.Timer.DriveAlert {
		fmt.Fprintln(w, render.Severity(compliance.SeverityWarning, "  Alert: driving break due soon"))
	}
	if ev.Timer.ServiceAlert {
		fmt.Fprintln(w, render.Severity(compliance.SeverityWarning, "  Alert: service break due soon"))
	}

	t := ev.Today
	fmt.Fprintf(w, "Today  drive %s  work %s  available %s  rest %s  amplitude %s\n",
		timecalc.FormatMinutes(t.TotalDriveMinutes),
		timecalc.FormatMinutes(t.TotalWorkMinutes),
		timecalc.FormatMinutes(t.TotalAvailableMinutes),
		timecalc.FormatMinutes(t.TotalRestMinutes),
		timecalc.FormatMinutes(t.AmplitudeMinutes),
	)

	c := ev.Classification
	fmt.Fprintf(w, "  %s%s\n", label("Daily drive"), render.Check(c.Drive))
	fmt.Fprintf(w, "  %s%s\n", label("Daily rest"), render.Check(c.Rest))
	fmt.Fprintf(w, "  %s%s\n", label("Week "+timecalc.ISOWeekLabel(now)), render.Check(c.Weekly))
	fmt.Fprintf(w, "  %s%s\n", label("Two weeks"), render.Check(c.BiWeekly))
}

func label(s string) string { return render.Pad(s, 20) }

// breakLine describes the break timer in one phrase.
func breakLine(bt compliance.BreakTimer) string {
	var text string
	if bt.Overtime() {
		text = fmt.Sprintf("Break overdue by %s (%s cap)", timecalc.FormatMinutes(-bt.RemainingMinutes), bt.Cap)
	} else {
		text = fmt.Sprintf("Break due in %s (%s cap)", timecalc.FormatMinutes(bt.RemainingMinutes), bt.Cap)
	}
	return render.Severity(bt.Severity, text)
}
