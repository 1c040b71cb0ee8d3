package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

var (
	exportDate   string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a day's events, grouped by mission, to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "Day to export (YYYY-MM-DD), default today")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, yaml")
}

type exportEvent struct {
	Index int             `json:"index" yaml:"index"`
	Event model.DutyEvent `json:"event" yaml:"event"`
}

type exportGroup struct {
	// Mission is nil for activities logged before the first mission.
	Mission *model.ShiftSegment `json:"mission" yaml:"mission"`
	Events  []exportEvent       `json:"events" yaml:"events"`
}

type exportDoc struct {
	Date    string             `json:"date" yaml:"date"`
	Summary model.DailySummary `json:"summary" yaml:"summary"`
	Groups  []exportGroup      `json:"groups" yaml:"groups"`
}

func runExport(cmd *cobra.Command, args []string) error {
	now := time.Now()
	date := resolveDate(exportDate, now)

	day, err := storage.LoadDay(app.base, date)
	if err != nil {
		fail(err)
	}
	st, err := app.tk.State()
	if err != nil {
		fail(err)
	}
	if st.Active() && st.CurrentDay == day.Date {
		day = tracker.Refresh(st, day, now)
	}

	switch exportFormat {
	case "json":
		data, err := json.MarshalIndent(buildExport(day), "", "  ")
		if err != nil {
			fail(fmt.Errorf("error encoding JSON: %w", err))
		}
		fmt.Println(string(data))
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(buildExport(day)); err != nil {
			fail(fmt.Errorf("error encoding YAML: %w", err))
		}
		_ = enc.Close()
	case "md":
		printList(os.Stdout, day, st, now)
	case "csv":
		printCSV(os.Stdout, day)
	default:
		fail(fmt.Errorf("%w: unknown format %q (want csv, json, md or yaml)", errUsage, exportFormat))
	}
	return nil
}

func buildExport(day model.DayFile) exportDoc {
	doc := exportDoc{Date: day.Date, Summary: day.Stats}
	for _, g := range tracker.GroupBySegment(day) {
		eg := exportGroup{Mission: g.Segment, Events: make([]exportEvent, 0, len(g.Events))}
		for _, ie := range g.Events {
			eg.Events = append(eg.Events, exportEvent{Index: ie.Index + 1, Event: ie.Event})
		}
		doc.Groups = append(doc.Groups, eg)
	}
	return doc
}

// printCSV writes one row per event with the mission it belongs to.
func printCSV(w io.Writer, day model.DayFile) {
	fmt.Fprintln(w, "date,index,client,route,cargo,type,start,end,duration_minutes,note")
	for _, g := range tracker.GroupBySegment(day) {
		var mission model.ShiftContext
		if g.Segment != nil {
			mission = g.Segment.Context
		}
		for _, ie := range g.Events {
			e := ie.Event
			endStr := ""
			if e.End != nil {
				endStr = e.End.Format(time.RFC3339)
			}
			note := ""
			if e.Note != nil {
				note = *e.Note
			}
			fmt.Fprintln(w, strings.Join([]string{
				csvEscape(day.Date),
				strconv.Itoa(ie.Index + 1),
				csvEscape(mission.Client),
				csvEscape(mission.Route),
				csvEscape(mission.Cargo),
				csvEscape(string(e.Kind)),
				csvEscape(e.Start.Format(time.RFC3339)),
				csvEscape(endStr),
				strconv.Itoa(e.DurationMinutes),
				csvEscape(note),
			}, ","))
		}
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
