package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

func TestTrackerDayLifecycle(t *testing.T) {
	base := t.TempDir()
	tk := tracker.New(base, compliance.DefaultLimits(), nil)

	_, err := tk.Switch(model.StatusWork, six)
	require.NoError(t, err)
	_, err = tk.Switch(model.StatusDrive, six.Add(30*time.Minute))
	require.NoError(t, err)
	_, err = tk.StartMission(model.ShiftContext{Client: "ACME", Route: "Lyon -> Paris"}, six.Add(30*time.Minute))
	require.NoError(t, err)

	r, err := tk.Evaluate(six.Add(4*time.Hour + 30*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, model.StatusDrive, r.App.CurrentStatus)
	assert.Equal(t, 240, r.Eval.State.ContinuousDriveMinutes)
	assert.Equal(t, 30, r.Eval.Timer.RemainingMinutes)
	assert.Equal(t, compliance.SeverityWarning, r.Eval.Timer.Severity)

	day, ok, err := tk.Snapshot(six.Add(5 * time.Hour))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 270, day.Stats.TotalDriveMinutes)

	_, day, err = tk.Stop(six.Add(5 * time.Hour))
	require.NoError(t, err)
	assert.Len(t, day.Events, 2)

	stored, err := storage.LoadDay(base, "2026-02-27")
	require.NoError(t, err)
	assert.Equal(t, 270, stored.Stats.TotalDriveMinutes)
	assert.Equal(t, 300, stored.Stats.AmplitudeMinutes)
	require.Len(t, stored.Segments, 1)

	require.NoError(t, tk.EditNote("2026-02-27", 1, "A6 southbound"))
	stored, err = storage.LoadDay(base, "2026-02-27")
	require.NoError(t, err)
	require.NotNil(t, stored.Events[1].Note)

	_, ok, err = tk.Snapshot(six.Add(6 * time.Hour))
	require.NoError(t, err)
	assert.False(t, ok, "snapshot is a no-op when idle")
}

func TestTrackerWeekIncludesOpenDay(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, storage.SaveDay(base, model.DayFile{
		Date:  "2026-02-24",
		Stats: model.DailySummary{Date: "2026-02-24", TotalDriveMinutes: 560, AmplitudeMinutes: 800},
	}))
	tk := tracker.New(base, compliance.DefaultLimits(), nil)
	_, err := tk.Switch(model.StatusDrive, six)
	require.NoError(t, err)

	now := six.Add(2 * time.Hour)
	w, err := tk.Week(now, now)
	require.NoError(t, err)
	assert.Equal(t, 680, w.WeeklyDriveMinutes)
	assert.Equal(t, 1, w.ExtendedDriveDayCount)
	assert.Equal(t, 1, w.ReducedRestDayCount)
}

func TestTrackerDeleteOpenDayResetsState(t *testing.T) {
	base := t.TempDir()
	tk := tracker.New(base, compliance.DefaultLimits(), nil)
	_, err := tk.Switch(model.StatusDrive, six)
	require.NoError(t, err)

	require.NoError(t, tk.DeleteDay("2026-02-27"))
	st, err := tk.State()
	require.NoError(t, err)
	assert.False(t, st.Active())

	err = tk.DeleteDay("2026-02-27")
	assert.ErrorIs(t, err, storage.ErrDayNotFound)
	assert.True(t, tracker.IsUserError(err))
}

func TestTrackerEvaluateKeepsOvernightShiftInOpeningWeek(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, storage.SaveDay(base, model.DayFile{
		Date:  "2026-03-04",
		Stats: model.DailySummary{Date: "2026-03-04", TotalDriveMinutes: 300, AmplitudeMinutes: 600},
	}))
	tk := tracker.New(base, compliance.DefaultLimits(), nil)
	sunday := time.Date(2026, 3, 8, 20, 0, 0, 0, time.UTC)
	_, err := tk.Switch(model.StatusDrive, sunday)
	require.NoError(t, err)

	r, err := tk.Evaluate(sunday.Add(7 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", r.Eval.Window.WeekStart)
	assert.Equal(t, 720, r.Eval.Window.WeeklyDriveMinutes, "Wednesday plus the open Sunday shift")
	assert.Equal(t, 0, r.Eval.Window.PreviousDriveMinutes)
}

func TestTrackerRejectsReopenBeforeStopPastMidnight(t *testing.T) {
	base := t.TempDir()
	tk := tracker.New(base, compliance.DefaultLimits(), nil)
	monday := time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC)
	tuesday := func(h, m int) time.Time { return time.Date(2026, 3, 3, h, m, 0, 0, time.UTC) }

	_, err := tk.Switch(model.StatusDrive, monday)
	require.NoError(t, err)
	_, day, err := tk.Stop(tuesday(2, 0))
	require.NoError(t, err)
	require.Equal(t, "2026-03-02", day.Date, "the shift stays on the day it opened on")

	_, err = tk.Switch(model.StatusDrive, tuesday(1, 0))
	assert.ErrorIs(t, err, tracker.ErrBackdated)
	assert.True(t, tracker.IsUserError(err))

	_, err = tk.Switch(model.StatusDrive, tuesday(2, 0))
	require.NoError(t, err)
	_, _, err = tk.Stop(tuesday(3, 0))
	require.NoError(t, err)

	w, err := tk.Week(tuesday(3, 0), tuesday(3, 0))
	require.NoError(t, err)
	assert.Equal(t, 420, w.WeeklyDriveMinutes, "20:00 to 03:00 counted once")

	// Deleting Tuesday falls back to the end of Monday's shift.
	require.NoError(t, tk.DeleteDay("2026-03-03"))
	_, err = tk.Switch(model.StatusWork, tuesday(1, 0))
	assert.ErrorIs(t, err, tracker.ErrBackdated)
	_, err = tk.Switch(model.StatusWork, tuesday(2, 30))
	require.NoError(t, err)
}
