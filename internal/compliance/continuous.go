package compliance

import (
	"sort"
	"time"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// ContinuousState is the result of replaying a day. It is recomputed on every
// query and never persisted.
type ContinuousState struct {
	ContinuousDriveMinutes   int `json:"continuous_drive_minutes"`
	ContinuousServiceMinutes int `json:"continuous_service_minutes"`
	TotalDrive               int `json:"total_drive_minutes"`
	TotalWork                int `json:"total_work_minutes"`
	TotalAvailable           int `json:"total_available_minutes"`
	TotalRest                int `json:"total_rest_minutes"`
	TotalService             int `json:"total_service_minutes"`
	AmplitudeMinutes         int `json:"amplitude_minutes"`
	// SplitBreakPending is set once a rest long enough to be the first part of
	// a split break has been taken since the last drive reset.
	SplitBreakPending bool `json:"split_break_pending"`
}

// ComputeContinuousState replays events in start-time order, followed by the
// open status as if it ended at now, and returns the resulting counters.
//
// Events are normalized before replay: they are sorted by start time on a
// copy, negative durations count as zero and events of unknown kind are
// skipped. Use Validate to report those problems to the user.
func ComputeContinuousState(events []model.DutyEvent, current model.Status, currentStart, now time.Time, limits Limits) ContinuousState {
	limits = limits.WithDefaults()
	seq := replaySequence(events, current, currentStart, now)

	var st ContinuousState
	for _, ev := range seq {
		st.fold(ev.Kind, ev.DurationMinutes, limits)
	}
	if len(seq) > 0 {
		st.AmplitudeMinutes = timecalc.MinutesBetween(seq[0].Start, now)
	}
	return st
}

func (st *ContinuousState) fold(kind model.Status, d int, limits Limits) {
	switch kind {
	case model.StatusDrive:
		st.TotalDrive += d
		st.TotalService += d
		st.ContinuousDriveMinutes += d
		st.ContinuousServiceMinutes += d
	case model.StatusWork:
		st.TotalWork += d
		st.TotalService += d
		st.ContinuousServiceMinutes += d
	case model.StatusAvailable:
		// Available is service time and never counts as a break.
		st.TotalAvailable += d
		st.TotalService += d
		st.ContinuousServiceMinutes += d
	case model.StatusRest:
		st.TotalRest += d
		st.applyBreak(d, limits)
	}
}

func (st *ContinuousState) applyBreak(d int, limits Limits) {
	switch {
	case d >= limits.FullBreak:
		st.ContinuousDriveMinutes = 0
		st.ContinuousServiceMinutes = 0
		st.SplitBreakPending = false
	case d >= limits.PartialBreak:
		st.ContinuousServiceMinutes = 0
		if st.SplitBreakPending {
			st.ContinuousDriveMinutes = 0
			st.SplitBreakPending = false
		} else {
			// Long enough to open a split on its own.
			st.SplitBreakPending = true
		}
	case d >= limits.SplitFirstPart:
		st.SplitBreakPending = true
	}
}

// replaySequence returns the normalized, sorted events with the open status
// appended as a synthetic trailing event.
func replaySequence(events []model.DutyEvent, current model.Status, currentStart, now time.Time) []model.DutyEvent {
	seq := normalize(events)
	if current.IsKind() {
		seq = append(seq, model.DutyEvent{
			Kind:            current,
			Start:           currentStart,
			DurationMinutes: timecalc.MinutesBetween(currentStart, now),
		})
	}
	return seq
}

func normalize(events []model.DutyEvent) []model.DutyEvent {
	out := make([]model.DutyEvent, 0, len(events)+1)
	for _, ev := range events {
		if !ev.Kind.IsKind() {
			continue
		}
		if ev.DurationMinutes < 0 {
			ev.DurationMinutes = 0
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// Summarize derives the persisted per-day counters. Amplitude runs to now
// while a status is open and to the latest event end otherwise.
func Summarize(date string, events []model.DutyEvent, current model.Status, currentStart, now time.Time) model.DailySummary {
	st := ComputeContinuousState(events, current, currentStart, now, DefaultLimits())
	sum := model.DailySummary{
		Date:                  date,
		TotalDriveMinutes:     st.TotalDrive,
		TotalWorkMinutes:      st.TotalWork,
		TotalAvailableMinutes: st.TotalAvailable,
		TotalRestMinutes:      st.TotalRest,
		AmplitudeMinutes:      st.AmplitudeMinutes,
	}
	if current.IsKind() {
		return sum
	}

	seq := normalize(events)
	if len(seq) == 0 {
		sum.AmplitudeMinutes = 0
		return sum
	}
	var end time.Time
	for _, ev := range seq {
		e := ev.Start.Add(time.Duration(ev.DurationMinutes) * time.Minute)
		if ev.End != nil && ev.End.After(e) {
			e = *ev.End
		}
		if e.After(end) {
			end = e
		}
	}
	sum.AmplitudeMinutes = timecalc.MinutesBetween(seq[0].Start, end)
	return sum
}
