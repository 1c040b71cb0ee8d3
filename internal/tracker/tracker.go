package tracker

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/storage"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// Tracker applies transitions to the on-disk log. It assumes a single writer.
type Tracker struct {
	base string
	agg  *compliance.Aggregator
	log  *zap.Logger
}

// New returns a Tracker rooted at base.
func New(base string, limits compliance.Limits, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{
		base: base,
		agg:  compliance.NewAggregator(limits, nil),
		log:  log,
	}
}

// State returns the persisted application state.
func (t *Tracker) State() (model.AppState, error) {
	return storage.LoadState(t.base)
}

// currentDay loads the day the state points at, or the day of at when idle.
func (t *Tracker) currentDay(st model.AppState, at time.Time) (model.DayFile, error) {
	date := st.CurrentDay
	if date == "" {
		date = timecalc.DateKey(at)
	}
	return storage.LoadDay(t.base, date)
}

// Switch changes the duty status at at.
func (t *Tracker) Switch(next model.Status, at time.Time) (Transition, error) {
	st, err := t.State()
	if err != nil {
		return Transition{}, err
	}
	day, err := t.currentDay(st, at)
	if err != nil {
		return Transition{}, err
	}

	st, day, tr, err := Switch(st, day, next, at)
	if err != nil {
		return Transition{}, err
	}
	if err := t.save(st, day); err != nil {
		return Transition{}, err
	}

	fields := []zap.Field{
		zap.String("from", string(tr.From)),
		zap.String("to", string(tr.To)),
		zap.String("day", day.Date),
		zap.Time("at", at),
	}
	if tr.Closed != nil {
		fields = append(fields, zap.Int("closed_minutes", tr.Closed.DurationMinutes))
	}
	t.log.Info("status changed", fields...)
	return tr, nil
}

// Stop closes the open status and ends the day.
func (t *Tracker) Stop(at time.Time) (Transition, model.DayFile, error) {
	st, err := t.State()
	if err != nil {
		return Transition{}, model.DayFile{}, err
	}
	if !st.Active() {
		return Transition{}, model.DayFile{}, ErrNoOpenStatus
	}
	day, err := t.currentDay(st, at)
	if err != nil {
		return Transition{}, model.DayFile{}, err
	}

	st, day, tr, err := Stop(st, day, at)
	if err != nil {
		return Transition{}, model.DayFile{}, err
	}
	if err := t.save(st, day); err != nil {
		return Transition{}, model.DayFile{}, err
	}
	t.log.Info("day closed",
		zap.String("day", day.Date),
		zap.Int("drive_minutes", day.Stats.TotalDriveMinutes),
		zap.Int("amplitude_minutes", day.Stats.AmplitudeMinutes),
	)
	return tr, day, nil
}

// StartMission records a new shift segment on the open day, or on at's day
// when idle.
func (t *Tracker) StartMission(mission model.ShiftContext, at time.Time) (model.DayFile, error) {
	st, err := t.State()
	if err != nil {
		return model.DayFile{}, err
	}
	day, err := t.currentDay(st, at)
	if err != nil {
		return model.DayFile{}, err
	}
	day = AddSegment(day, model.ShiftSegment{Start: at, Context: mission})
	if err := storage.SaveDay(t.base, day); err != nil {
		return model.DayFile{}, err
	}
	t.log.Info("mission started", zap.String("day", day.Date), zap.String("client", mission.Client), zap.String("route", mission.Route))
	return day, nil
}

// EditNote sets the note of the event at the 0-based index on date.
func (t *Tracker) EditNote(date string, index int, note string) error {
	day, err := storage.LoadDay(t.base, date)
	if err != nil {
		return err
	}
	day, err = SetNote(day, index, note)
	if err != nil {
		return err
	}
	return storage.SaveDay(t.base, day)
}

// Snapshot persists a fresh summary for the open day so history and weekly
// figures stay current while the status runs. It is a no-op when idle.
func (t *Tracker) Snapshot(now time.Time) (model.DayFile, bool, error) {
	st, err := t.State()
	if err != nil {
		return model.DayFile{}, false, err
	}
	if !st.Active() {
		return model.DayFile{}, false, nil
	}
	day, err := storage.LoadDay(t.base, st.CurrentDay)
	if err != nil {
		return model.DayFile{}, false, err
	}
	day = Refresh(st, day, now)
	if err := storage.SaveDay(t.base, day); err != nil {
		return model.DayFile{}, false, err
	}
	t.log.Debug("snapshot saved", zap.String("day", day.Date), zap.Int("amplitude_minutes", day.Stats.AmplitudeMinutes))
	return day, true, nil
}

// Reading is one live evaluation together with the data it was computed from.
type Reading struct {
	App  model.AppState
	Day  model.DayFile
	Eval compliance.Evaluation
}

// Evaluate reads the log and runs the compliance pipeline as of now.
func (t *Tracker) Evaluate(now time.Time) (Reading, error) {
	st, err := t.State()
	if err != nil {
		return Reading{}, err
	}
	day, err := t.currentDay(st, now)
	if err != nil {
		return Reading{}, err
	}
	ref := now
	if d, perr := timecalc.ParseDateKey(day.Date); perr == nil {
		ref = d
	}
	history, err := storage.LoadSummaries(t.base, ref)
	if err != nil {
		return Reading{}, err
	}

	if verr := compliance.Validate(day.Events); verr != nil {
		t.log.Warn("event log violates contract, replaying normalized copy",
			zap.String("day", day.Date), zap.Error(verr))
	}

	in := compliance.Input{
		Date:    day.Date,
		Events:  day.Events,
		Current: model.StatusIdle,
		Now:     now,
		History: history,
	}
	if st.Active() {
		in.Current, in.CurrentStart = st.CurrentStatus, st.LastStatusChange
	}
	ev := t.agg.Evaluate(in)
	t.log.Debug("evaluated",
		zap.String("day", day.Date),
		zap.Int("continuous_drive", ev.State.ContinuousDriveMinutes),
		zap.Int("continuous_service", ev.State.ContinuousServiceMinutes),
		zap.Int("remaining", ev.Timer.RemainingMinutes),
		zap.String("cap", string(ev.Timer.Cap)),
	)
	return Reading{App: st, Day: day, Eval: ev}, nil
}

// Week returns the weekly window around ref, including a live summary of the
// open day.
func (t *Tracker) Week(ref, now time.Time) (compliance.WeeklyWindow, error) {
	sums, err := storage.LoadSummaries(t.base, ref)
	if err != nil {
		return compliance.WeeklyWindow{}, err
	}
	st, err := t.State()
	if err != nil {
		return compliance.WeeklyWindow{}, err
	}
	if st.Active() {
		day, err := storage.LoadDay(t.base, st.CurrentDay)
		if err != nil {
			return compliance.WeeklyWindow{}, err
		}
		sums = append(sums, Refresh(st, day, now).Stats)
	}
	return t.agg.Window(sums, ref), nil
}

// DeleteDay removes a whole day. When the deleted day held the open status or
// the last stop, the state falls back to Idle with the end of the previous
// day's last shift as the earliest time a new shift may start.
func (t *Tracker) DeleteDay(date string) error {
	day, err := storage.LoadDay(t.base, date)
	if err != nil {
		return err
	}
	if err := storage.DeleteDay(t.base, date); err != nil {
		return err
	}
	st, err := t.State()
	if err != nil {
		return err
	}
	end, ok := lastEnd(day)
	lastStop := !st.Active() && ok && end.Equal(st.LastStatusChange)
	if st.CurrentDay == date || lastStop {
		prev, err := t.previousEnd(date)
		if err != nil {
			return err
		}
		if err := storage.SaveState(t.base, model.AppState{CurrentStatus: model.StatusIdle, LastStatusChange: prev}); err != nil {
			return err
		}
	}
	t.log.Info("day deleted", zap.String("day", date))
	return nil
}

// previousEnd returns the latest event end stored on the day before date. A
// shift that ran past midnight ends there.
func (t *Tracker) previousEnd(date string) (time.Time, error) {
	d, err := timecalc.ParseDateKey(date)
	if err != nil {
		return time.Time{}, err
	}
	day, err := storage.LoadDay(t.base, timecalc.DateKey(d.AddDate(0, 0, -1)))
	if err != nil {
		return time.Time{}, err
	}
	end, _ := lastEnd(day)
	return end, nil
}

func (t *Tracker) save(st model.AppState, day model.DayFile) error {
	if err := storage.SaveDay(t.base, day); err != nil {
		return fmt.Errorf("saving day %s: %w", day.Date, err)
	}
	if err := storage.SaveState(t.base, st); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// IsUserError reports whether err came from a rejected command rather than
// from storage.
func IsUserError(err error) bool {
	for _, target := range []error{ErrInvalidStatus, ErrSameStatus, ErrNoOpenStatus, ErrBackdated, ErrEventIndex, storage.ErrDayNotFound} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
