package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Tiliavir/tacho-tracker/internal/config"
	"github.com/Tiliavir/tacho-tracker/internal/logging"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

// env is what every command needs once the root has been set up.
type env struct {
	base string
	cfg  config.Config
	log  *zap.Logger
	tk   *tracker.Tracker
}

var app env

var rootCmd = &cobra.Command{
	Use:   "tacho",
	Short: "tacho – a driver duty-time tracker",
	Long: `tacho logs driving, work, availability and rest and checks the log
against EU-style driving and working time limits.
All data is stored as human-readable JSON files in ~/.tacho/.`,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	for _, s := range model.Kinds {
		rootCmd.AddCommand(newSwitchCmd(s))
	}
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(missionCmd)
	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(deleteCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	base, err := storage.BaseDir()
	if err != nil {
		fail(err)
	}
	cfg, err := config.Load(base)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	log := logging.New(cfg.Log)
	if len(cfg.Unknown) > 0 {
		log.Warn("unknown config keys ignored", zap.Strings("keys", cfg.Unknown))
	}
	log.Debug("command started", zap.String("command", cmd.CommandPath()), zap.Strings("args", args))

	app = env{
		base: base,
		cfg:  cfg,
		log:  log,
		tk:   tracker.New(base, cfg.Limits, log),
	}
	return nil
}

// fail prints err and exits: 1 for rejected commands, 2 for storage errors.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	code := 2
	if tracker.IsUserError(err) || errors.Is(err, errUsage) {
		code = 1
	}
	if app.log != nil {
		app.log.Error("command failed", zap.Error(err), zap.Int("exit_code", code))
		_ = app.log.Sync()
	}
	os.Exit(code)
}

// errUsage marks bad flag or argument values.
var errUsage = errors.New("invalid argument")

// resolveAt returns now, or the HH:MM clock value on now's day.
func resolveAt(at string, now time.Time) time.Time {
	t, err := parseAt(at, now)
	if err != nil {
		fail(err)
	}
	return t
}

// parseAt resolves --at against now. A clock value later than now is refused.
func parseAt(at string, now time.Time) (time.Time, error) {
	if at == "" {
		return now, nil
	}
	t, err := timecalc.ParseClock(at, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	if t.After(now) {
		return time.Time{}, fmt.Errorf("%w: --at %s is in the future", errUsage, t.Format("15:04"))
	}
	return t, nil
}

// resolveDate returns the --date key, defaulting to now's day.
func resolveDate(date string, now time.Time) string {
	if date == "" {
		return timecalc.DateKey(now)
	}
	if _, err := timecalc.ParseDateKey(date); err != nil {
		fail(fmt.Errorf("%w: %v", errUsage, err))
	}
	return date
}
