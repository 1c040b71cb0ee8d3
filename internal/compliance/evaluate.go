package compliance

import (
	"time"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// Input is everything needed for one live reading of the open day.
type Input struct {
	Date         string
	Events       []model.DutyEvent
	Current      model.Status
	CurrentStart time.Time
	Now          time.Time
	// History holds the summaries of other days. A stale summary for Date is
	// replaced by the live one.
	History []model.DailySummary
}

// Evaluation bundles the engine, timer, aggregator and classifier outputs.
type Evaluation struct {
	Today          model.DailySummary `json:"today"`
	State          ContinuousState    `json:"state"`
	Timer          BreakTimer         `json:"break_timer"`
	Window         WeeklyWindow       `json:"window"`
	Classification Classification     `json:"classification"`
}

// Evaluate runs the whole pipeline for in.
func (a *Aggregator) Evaluate(in Input) Evaluation {
	st := ComputeContinuousState(in.Events, in.Current, in.CurrentStart, in.Now, a.limits)
	today := Summarize(in.Date, in.Events, in.Current, in.CurrentStart, in.Now)

	summaries := make([]model.DailySummary, 0, len(in.History)+1)
	for _, s := range in.History {
		if s.Date != in.Date {
			summaries = append(summaries, s)
		}
	}
	if in.Date != "" {
		summaries = append(summaries, today)
	}

	w := a.Window(summaries, windowRef(in))
	return Evaluation{
		Today:          today,
		State:          st,
		Timer:          RemainingToBreak(st, a.limits),
		Window:         w,
		Classification: Classify(st, w, a.limits),
	}
}

// windowRef is the date whose week the live reading belongs to. A shift opened
// late on Sunday stays in that week after midnight.
func windowRef(in Input) time.Time {
	if d, err := timecalc.ParseDateKey(in.Date); err == nil {
		return d
	}
	return in.Now
}
