package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/render"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

var switchShort = map[model.Status]string{
	model.StatusDrive:     "Start driving",
	model.StatusWork:      "Start other work (loading, checks, paperwork)",
	model.StatusAvailable: "Start a period of availability",
	model.StatusRest:      "Start a break or rest",
}

// newSwitchCmd builds the command that changes the duty status to s.
func newSwitchCmd(s model.Status) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   strings.ToLower(string(s)),
		Short: switchShort[s],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runSwitch(s, resolveAt(at, time.Now()))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Backdate the change to HH:MM today")
	return cmd
}

func runSwitch(s model.Status, at time.Time) {
	tr, err := app.tk.Switch(s, at)
	if err != nil {
		fail(err)
	}
	if tr.Opened {
		fmt.Printf("Day %s opened.\n", timecalc.DateKey(at))
	}
	if tr.Closed != nil {
		fmt.Printf("Closed %s after %s.\n", tr.Closed.Kind, timecalc.FormatMinutes(tr.Closed.DurationMinutes))
	}
	fmt.Printf("%s since %s\n", render.Status(s), at.Format("15:04"))

	r, err := app.tk.Evaluate(time.Now())
	if err != nil {
		fail(err)
	}
	fmt.Println(breakLine(r.Eval.Timer))
}
