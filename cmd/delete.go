package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete a whole day (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	date := resolveDate(args[0], time.Now())

	if err := app.tk.DeleteDay(date); err != nil {
		fail(err)
	}
	fmt.Printf("Deleted %s.\n", date)
	return nil
}
