package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/render"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

var listDate string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List a day's duty events grouped by mission",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVar(&listDate, "date", "", "Day to list (YYYY-MM-DD), default today")
}

func runList(cmd *cobra.Command, args []string) error {
	now := time.Now()
	date := resolveDate(listDate, now)

	day, err := storage.LoadDay(app.base, date)
	if err != nil {
		fail(err)
	}
	st, err := app.tk.State()
	if err != nil {
		fail(err)
	}
	printList(os.Stdout, day, st, now)
	return nil
}

// printList prints the day's events under their missions. Numbers are the
// 1-based positions accepted by `tacho note`.
func printList(w io.Writer, day model.DayFile, st model.AppState, now time.Time) {
	open := st.Active() && st.CurrentDay == day.Date
	if len(day.Events) == 0 && len(day.Segments) == 0 && !open {
		fmt.Fprintln(w, "No events found.")
		return
	}

	fmt.Fprintln(w, render.Header(day.Date))
	for _, g := range tracker.GroupBySegment(day) {
		fmt.Fprintln(w, segmentTitle(g.Segment))
		for _, ie := range g.Events {
			e := ie.Event
			endStr := "ongoing"
			if e.End != nil {
				endStr = e.End.Format("15:04")
			}
			note := ""
			if e.Note != nil {
				note = "  " + *e.Note
			}
			fmt.Fprintf(w, "  %2d. %s–%s  %-9s %s%s\n", ie.Index+1, e.Start.Format("15:04"), endStr,
				e.Kind, timecalc.FormatMinutes(e.DurationMinutes), note)
		}
	}
	if open {
		fmt.Fprintf(w, "   *  %s–ongoing  %-9s %s\n", st.LastStatusChange.Format("15:04"), st.CurrentStatus,
			timecalc.FormatMinutes(timecalc.MinutesBetween(st.LastStatusChange, now)))
	}
}

func segmentTitle(seg *model.ShiftSegment) string {
	if seg == nil {
		return render.Muted("Before first mission")
	}
	parts := []string{"Mission from " + seg.Start.Format("15:04")}
	c := seg.Context
	for _, p := range []struct{ label, value string }{
		{"client", c.Client}, {"route", c.Route}, {"cargo", c.Cargo}, {"notes", c.Notes},
	} {
		if p.value != "" {
			parts = append(parts, p.label+": "+p.value)
		}
	}
	return render.Header(strings.Join(parts, "  "))
}
