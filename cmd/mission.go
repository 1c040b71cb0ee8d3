package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/tacho-tracker/internal/model"
)

var (
	missionClient string
	missionRoute  string
	missionCargo  string
	missionNotes  string
	missionAt     string
)

var missionCmd = &cobra.Command{
	Use:   "mission",
	Short: "Start a new mission (shift segment) on the current day",
	Args:  cobra.NoArgs,
	RunE:  runMission,
}

func init() {
	missionCmd.Flags().StringVar(&missionClient, "client", "", "Client name")
	missionCmd.Flags().StringVar(&missionRoute, "route", "", "Route, e.g. \"Lyon -> Paris\"")
	missionCmd.Flags().StringVar(&missionCargo, "cargo", "", "Cargo description")
	missionCmd.Flags().StringVar(&missionNotes, "notes", "", "Free-form notes")
	missionCmd.Flags().StringVar(&missionAt, "at", "", "Start the mission at HH:MM today")
}

func runMission(cmd *cobra.Command, args []string) error {
	at := resolveAt(missionAt, time.Now())
	mission := model.ShiftContext{
		Client: missionClient,
		Route:  missionRoute,
		Cargo:  missionCargo,
		Notes:  missionNotes,
	}
	day, err := app.tk.StartMission(mission, at)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Mission %d started at %s on %s.\n", len(day.Segments), at.Format("15:04"), day.Date)
	return nil
}
