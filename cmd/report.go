package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/render"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

var (
	reportDate   string
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the weekly and bi-weekly driving window",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDate, "date", "", "Any day of the week to report (YYYY-MM-DD), default today")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

// weekReport is one week of day summaries with the window verdicts.
type weekReport struct {
	Week     string                  `json:"week"`
	Window   compliance.WeeklyWindow `json:"window"`
	Days     []model.DailySummary    `json:"days"`
	Weekly   compliance.Status       `json:"weekly"`
	BiWeekly compliance.Status       `json:"biweekly"`
}

func runReport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	date := resolveDate(reportDate, now)
	ref, _ := timecalc.ParseDateKey(date)

	rep, err := buildReport(ref, now)
	if err != nil {
		fail(err)
	}

	switch reportFormat {
	case "csv":
		writeReportCSV(os.Stdout, rep)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			fail(fmt.Errorf("error encoding JSON: %w", err))
		}
	case "md":
		writeReportMD(os.Stdout, rep)
	default:
		fail(fmt.Errorf("%w: unknown format %q (want md, csv or json)", errUsage, reportFormat))
	}
	return nil
}

func buildReport(ref, now time.Time) (weekReport, error) {
	w, err := app.tk.Week(ref, now)
	if err != nil {
		return weekReport{}, err
	}
	from, to := timecalc.WeekRange(ref)
	days, err := storage.LoadRange(app.base, from, to)
	if err != nil {
		return weekReport{}, err
	}
	st, err := app.tk.State()
	if err != nil {
		return weekReport{}, err
	}

	rep := weekReport{Week: timecalc.ISOWeekLabel(ref), Window: w, Days: make([]model.DailySummary, 0, len(days))}
	for _, day := range days {
		if st.Active() && st.CurrentDay == day.Date {
			day = tracker.Refresh(st, day, now)
		}
		rep.Days = append(rep.Days, day.Stats)
	}
	c := compliance.Classify(compliance.ContinuousState{}, w, app.cfg.Limits)
	rep.Weekly, rep.BiWeekly = c.Weekly, c.BiWeekly
	return rep, nil
}

func writeReportCSV(out io.Writer, rep weekReport) {
	fmt.Fprintln(out, "date,drive_minutes,work_minutes,available_minutes,rest_minutes,amplitude_minutes")
	for _, d := range rep.Days {
		fmt.Fprintf(out, "%s,%d,%d,%d,%d,%d\n", d.Date,
			d.TotalDriveMinutes, d.TotalWorkMinutes, d.TotalAvailableMinutes, d.TotalRestMinutes, d.AmplitudeMinutes)
	}
}

func writeReportMD(out io.Writer, rep weekReport) {
	const rule = "------------------------------------------------------------"
	fmt.Fprintf(out, "%s\n", render.Header("Week "+rep.Week))
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-12s%8s%8s%8s%8s%8s\n", "Date", "Drive", "Work", "Avail", "Rest", "Span")
	for _, d := range rep.Days {
		fmt.Fprintf(out, "%-12s%8s%8s%8s%8s%8s\n", d.Date,
			timecalc.FormatMinutes(d.TotalDriveMinutes),
			timecalc.FormatMinutes(d.TotalWorkMinutes),
			timecalc.FormatMinutes(d.TotalAvailableMinutes),
			timecalc.FormatMinutes(d.TotalRestMinutes),
			timecalc.FormatMinutes(d.AmplitudeMinutes),
		)
	}
	fmt.Fprintln(out, rule)
	w := rep.Window
	fmt.Fprintf(out, "%-20s%s\n", "This week", render.Check(rep.Weekly))
	fmt.Fprintf(out, "%-20s%s\n", "Previous week", timecalc.FormatMinutes(w.PreviousDriveMinutes))
	fmt.Fprintf(out, "%-20s%s\n", "Two weeks", render.Check(rep.BiWeekly))
	fmt.Fprintf(out, "%-20s%d\n", "10h days", w.ExtendedDriveDayCount)
	fmt.Fprintf(out, "%-20s%d\n", "Reduced rests", w.ReducedRestDayCount)
}
