package tracker_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/tracker"
)

var six = time.Date(2026, 2, 27, 6, 0, 0, 0, time.UTC)

func idle() model.AppState {
	return model.AppState{CurrentStatus: model.StatusIdle}
}

func TestSwitchOpensDayAndKeepsEventsContiguous(t *testing.T) {
	st, day := idle(), model.DayFile{Date: "2026-02-27"}

	st, day, tr, err := tracker.Switch(st, day, model.StatusWork, six)
	require.NoError(t, err)
	assert.True(t, tr.Opened)
	assert.Nil(t, tr.Closed)
	assert.Equal(t, "2026-02-27", st.CurrentDay)
	assert.Empty(t, day.Events)

	st, day, tr, err = tracker.Switch(st, day, model.StatusDrive, six.Add(30*time.Minute+59*time.Second))
	require.NoError(t, err)
	require.NotNil(t, tr.Closed)
	assert.Equal(t, 30, tr.Closed.DurationMinutes, "durations round down")

	st, day, _, err = tracker.Switch(st, day, model.StatusRest, six.Add(4*time.Hour))
	require.NoError(t, err)

	require.Len(t, day.Events, 2)
	assert.True(t, day.Events[0].End.Equal(day.Events[1].Start))
	assert.Equal(t, model.StatusRest, st.CurrentStatus)
	assert.Equal(t, 209, day.Stats.TotalDriveMinutes)
	assert.Equal(t, 240, day.Stats.AmplitudeMinutes)
}

func TestSwitchRejectsSameStatusAndBackdating(t *testing.T) {
	st, day, _, err := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, six)
	require.NoError(t, err)

	_, _, _, err = tracker.Switch(st, day, model.StatusDrive, six.Add(time.Hour))
	assert.ErrorIs(t, err, tracker.ErrSameStatus)

	_, _, _, err = tracker.Switch(st, day, model.StatusRest, six.Add(-time.Minute))
	assert.ErrorIs(t, err, tracker.ErrBackdated)

	_, _, _, err = tracker.Switch(st, day, model.StatusIdle, six.Add(time.Hour))
	assert.ErrorIs(t, err, tracker.ErrInvalidStatus)
}

func TestStopFinalizesDay(t *testing.T) {
	st, day, _, err := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, six)
	require.NoError(t, err)

	st, day, tr, err := tracker.Stop(st, day, six.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, model.StatusDrive, tr.From)
	assert.False(t, st.Active())
	assert.Empty(t, st.CurrentDay)
	assert.Equal(t, 180, day.Stats.TotalDriveMinutes)
	assert.Equal(t, 180, day.Stats.AmplitudeMinutes)

	_, _, _, err = tracker.Stop(st, day, six.Add(4*time.Hour))
	assert.ErrorIs(t, err, tracker.ErrNoOpenStatus)
}

func TestSecondShiftFillsGapWithRest(t *testing.T) {
	st, day, _, _ := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, six)
	st, day, _, _ = tracker.Stop(st, day, six.Add(2*time.Hour))

	st, day, tr, err := tracker.Switch(st, day, model.StatusWork, six.Add(3*time.Hour))
	require.NoError(t, err)
	assert.True(t, tr.Opened)
	require.Len(t, day.Events, 2)
	gap := day.Events[1]
	assert.Equal(t, model.StatusRest, gap.Kind)
	assert.Equal(t, 60, gap.DurationMinutes)
	require.NotNil(t, gap.Note)
	assert.Equal(t, "2026-02-27", st.CurrentDay)
}

func TestShiftAcrossMidnightStaysOnOpeningDay(t *testing.T) {
	late := time.Date(2026, 2, 27, 22, 0, 0, 0, time.UTC)
	st, day, _, _ := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, late)
	st, day, _, err := tracker.Switch(st, day, model.StatusRest, late.Add(3*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-27", st.CurrentDay)
	assert.Equal(t, "2026-02-27", day.Date)
	assert.Equal(t, 180, day.Events[0].DurationMinutes)
}

func TestRefreshUsesLiveStatus(t *testing.T) {
	st, day, _, _ := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, six)
	day = tracker.Refresh(st, day, six.Add(95*time.Minute))
	assert.Equal(t, 95, day.Stats.TotalDriveMinutes)
	assert.Equal(t, 95, day.Stats.AmplitudeMinutes)
}

func TestSetNote(t *testing.T) {
	st, day, _, _ := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusWork, six)
	_, day, _, _ = tracker.Switch(st, day, model.StatusDrive, six.Add(time.Hour))

	updated, err := tracker.SetNote(day, 0, "loading")
	require.NoError(t, err)
	require.NotNil(t, updated.Events[0].Note)
	assert.Equal(t, "loading", *updated.Events[0].Note)
	assert.Nil(t, day.Events[0].Note, "input day must not change")

	cleared, err := tracker.SetNote(updated, 0, "")
	require.NoError(t, err)
	assert.Nil(t, cleared.Events[0].Note)

	_, err = tracker.SetNote(day, 1, "x")
	assert.ErrorIs(t, err, tracker.ErrEventIndex)
}

func TestReopenBeforePreviousStopIsRejected(t *testing.T) {
	st, day, _, _ := tracker.Switch(idle(), model.DayFile{Date: "2026-02-27"}, model.StatusDrive, six)
	st, day, _, err := tracker.Stop(st, day, six.Add(4*time.Hour))
	require.NoError(t, err)

	_, after, _, err := tracker.Switch(st, day, model.StatusWork, six.Add(2*time.Hour))
	assert.ErrorIs(t, err, tracker.ErrBackdated)
	assert.Len(t, after.Events, 1, "rejected switch must not touch the day")

	st, day, _, err = tracker.Switch(st, day, model.StatusWork, six.Add(4*time.Hour))
	require.NoError(t, err, "reopening exactly at the previous stop is allowed")
	_, day, _, err = tracker.Stop(st, day, six.Add(5*time.Hour))
	require.NoError(t, err)

	require.NoError(t, compliance.Validate(day.Events))
	assert.Len(t, day.Events, 2, "no zero-length gap event")
	assert.Equal(t, 300, day.Stats.AmplitudeMinutes)
}

func TestSwitchFromIdleRespectsLastStop(t *testing.T) {
	stop := time.Date(2026, 2, 28, 2, 0, 0, 0, time.UTC)
	st := model.AppState{CurrentStatus: model.StatusIdle, LastStatusChange: stop}

	_, day, _, err := tracker.Switch(st, model.DayFile{Date: "2026-02-28"}, model.StatusDrive, stop.Add(-time.Hour))
	require.ErrorIs(t, err, tracker.ErrBackdated)
	assert.Contains(t, err.Error(), "before the last recorded change (01:00 < 02:00")
	assert.Empty(t, day.Events)

	st, _, tr, err := tracker.Switch(st, model.DayFile{Date: "2026-02-28"}, model.StatusDrive, stop)
	require.NoError(t, err)
	assert.True(t, tr.Opened)
	assert.Equal(t, "2026-02-28", st.CurrentDay)
}
