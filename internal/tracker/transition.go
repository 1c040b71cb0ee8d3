package tracker

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// offDutyNote marks the rest event that fills the gap when a second shift is
// opened on a day that already has events.
const offDutyNote = "off duty"

// Transition describes what a status change did.
type Transition struct {
	From   model.Status
	To     model.Status
	At     time.Time
	Closed *model.DutyEvent
	// Opened is true when the change started a new day.
	Opened bool
}

// Switch closes the open status at at and opens next. When nothing is open it
// opens the day for at's date. day must be the day file the state points at,
// or the file for at's date when the state is Idle.
func Switch(st model.AppState, day model.DayFile, next model.Status, at time.Time) (model.AppState, model.DayFile, Transition, error) {
	if !next.IsKind() {
		return st, day, Transition{}, fmt.Errorf("%w: %q", ErrInvalidStatus, next)
	}
	tr := Transition{From: st.CurrentStatus, To: next, At: at}

	if st.Active() {
		if st.CurrentStatus == next {
			return st, day, Transition{}, fmt.Errorf("%w: %s", ErrSameStatus, next)
		}
		closed, err := closeOpen(st, &day, at)
		if err != nil {
			return st, day, Transition{}, err
		}
		tr.Closed = &closed
	} else {
		// The previous shift may have been stopped after midnight, on a
		// later date than the file it is stored in.
		end, _ := lastEnd(day)
		if st.LastStatusChange.After(end) {
			end = st.LastStatusChange
		}
		if at.Before(end) {
			return st, day, Transition{}, fmt.Errorf("%w (%s < %s, end of the previous shift)", ErrBackdated,
				at.Format("15:04"), end.Format("15:04"))
		}
		day = openDay(day, at)
		st.CurrentDay = day.Date
		tr.From = model.StatusIdle
		tr.Opened = true
	}

	st.CurrentStatus = next
	st.LastStatusChange = at
	day.Stats = compliance.Summarize(day.Date, day.Events, st.CurrentStatus, st.LastStatusChange, at)
	return st, day, tr, nil
}

// Stop closes the open status and returns to Idle, finalizing the day summary.
func Stop(st model.AppState, day model.DayFile, at time.Time) (model.AppState, model.DayFile, Transition, error) {
	if !st.Active() {
		return st, day, Transition{}, ErrNoOpenStatus
	}
	closed, err := closeOpen(st, &day, at)
	if err != nil {
		return st, day, Transition{}, err
	}
	tr := Transition{From: st.CurrentStatus, To: model.StatusIdle, At: at, Closed: &closed}

	st = model.AppState{CurrentStatus: model.StatusIdle, LastStatusChange: at}
	day.Stats = compliance.Summarize(day.Date, day.Events, model.StatusIdle, time.Time{}, at)
	return st, day, tr, nil
}

// Refresh recomputes the summary of the open day as of now.
func Refresh(st model.AppState, day model.DayFile, now time.Time) model.DayFile {
	current, start := model.StatusIdle, time.Time{}
	if st.Active() && st.CurrentDay == day.Date {
		current, start = st.CurrentStatus, st.LastStatusChange
	}
	day.Stats = compliance.Summarize(day.Date, day.Events, current, start, now)
	return day
}

func closeOpen(st model.AppState, day *model.DayFile, at time.Time) (model.DutyEvent, error) {
	if at.Before(st.LastStatusChange) {
		return model.DutyEvent{}, fmt.Errorf("%w (%s < %s)", ErrBackdated,
			at.Format("15:04"), st.LastStatusChange.Format("15:04"))
	}
	end := at
	ev := model.DutyEvent{
		Kind:            st.CurrentStatus,
		Start:           st.LastStatusChange,
		End:             &end,
		DurationMinutes: timecalc.MinutesBetween(st.LastStatusChange, at),
	}
	day.Events = append(day.Events, ev)
	return ev, nil
}

// lastEnd returns the latest end among the day's closed events.
func lastEnd(day model.DayFile) (time.Time, bool) {
	var end time.Time
	found := false
	for _, ev := range day.Events {
		if ev.End != nil && ev.End.After(end) {
			end, found = *ev.End, true
		}
	}
	return end, found
}

// openDay prepares day for a new shift starting at at, recording the time since
// the previous shift on the same date as rest so the log stays contiguous.
func openDay(day model.DayFile, at time.Time) model.DayFile {
	if day.Date == "" {
		day.Date = timecalc.DateKey(at)
	}
	if n := len(day.Events); n > 0 {
		last := day.Events[n-1]
		if last.End != nil && at.After(*last.End) {
			start, end := *last.End, at
			note := offDutyNote
			day.Events = append(day.Events, model.DutyEvent{
				Kind:            model.StatusRest,
				Start:           start,
				End:             &end,
				DurationMinutes: timecalc.MinutesBetween(start, end),
				Note:            &note,
			})
		}
	}
	return day
}

// AddSegment records that a new mission starts at seg.Start, keeping segments
// ordered by start time.
func AddSegment(day model.DayFile, seg model.ShiftSegment) model.DayFile {
	segs := append(append([]model.ShiftSegment(nil), day.Segments...), seg)
	sort.SliceStable(segs, func(i, j int) bool {
		return segs[i].Start.Before(segs[j].Start)
	})
	day.Segments = segs
	return day
}

// SetNote replaces the note of the event at index. An empty note clears it.
// Notes are the only part of a closed event that may change.
func SetNote(day model.DayFile, index int, note string) (model.DayFile, error) {
	if index < 0 || index >= len(day.Events) {
		return day, fmt.Errorf("%w: %d (day has %d events)", ErrEventIndex, index+1, len(day.Events))
	}
	events := append([]model.DutyEvent(nil), day.Events...)
	if note == "" {
		events[index].Note = nil
	} else {
		events[index].Note = &note
	}
	day.Events = events
	return day, nil
}
