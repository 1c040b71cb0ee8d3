package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var noteDate string

var noteCmd = &cobra.Command{
	Use:   "note <index> <text>",
	Short: "Set the note of a closed event (index as shown by list; empty text clears)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNote,
}

func init() {
	noteCmd.Flags().StringVar(&noteDate, "date", "", "Day of the event (YYYY-MM-DD), default today")
}

func runNote(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[0])
	if err != nil || index < 1 {
		fail(fmt.Errorf("%w: index must be a positive number, got %q", errUsage, args[0]))
	}
	date := resolveDate(noteDate, time.Now())
	text := strings.Join(args[1:], " ")

	if err := app.tk.EditNote(date, index-1, text); err != nil {
		fail(err)
	}
	if text == "" {
		fmt.Printf("Cleared note of event %d on %s.\n", index, date)
		return nil
	}
	fmt.Printf("Updated note of event %d on %s.\n", index, date)
	return nil
}
