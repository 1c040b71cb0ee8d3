package compliance

import (
	"time"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// ReducedRestDetector decides whether a day used one of the week's reduced
// daily rests.
type ReducedRestDetector interface {
	ReducedRest(day model.DailySummary) bool
}

// AmplitudeProxy infers a reduced rest from the day's amplitude: a day
// longer than MaxAmplitude cannot be followed by a full 11h rest within 24h.
type AmplitudeProxy struct {
	MaxAmplitude int
}

func (p AmplitudeProxy) ReducedRest(day model.DailySummary) bool {
	return day.AmplitudeMinutes > p.MaxAmplitude
}

// WeeklyWindow is the aggregate over the Monday-Sunday week containing the
// reference date and the week before it.
type WeeklyWindow struct {
	WeekStart             string `json:"week_start"`
	WeekEnd               string `json:"week_end"`
	DaysInWeek            int    `json:"days_in_week"`
	WeeklyDriveMinutes    int    `json:"weekly_drive_minutes"`
	PreviousDriveMinutes  int    `json:"previous_week_drive_minutes"`
	BiWeeklyDriveMinutes  int    `json:"biweekly_drive_minutes"`
	ExtendedDriveDayCount int    `json:"extended_drive_days"`
	ReducedRestDayCount   int    `json:"reduced_rest_days"`
}

// Aggregator computes weekly windows. The zero value is not usable; build one
// with NewAggregator.
type Aggregator struct {
	limits   Limits
	detector ReducedRestDetector
}

// NewAggregator returns an Aggregator using the amplitude proxy for reduced
// rest detection unless detector is non-nil.
func NewAggregator(limits Limits, detector ReducedRestDetector) *Aggregator {
	limits = limits.WithDefaults()
	if detector == nil {
		detector = AmplitudeProxy{MaxAmplitude: limits.MaxAmplitude}
	}
	return &Aggregator{limits: limits, detector: detector}
}

// ComputeWeeklyWindow aggregates summaries with the default detector.
func ComputeWeeklyWindow(summaries []model.DailySummary, ref time.Time, limits Limits) WeeklyWindow {
	return NewAggregator(limits, nil).Window(summaries, ref)
}

// Window aggregates the current and previous week around ref. Membership is by
// calendar date key; summaries outside both weeks are ignored, and several
// summaries for the same date collapse to the latest snapshot of that day.
func (a *Aggregator) Window(summaries []model.DailySummary, ref time.Time) WeeklyWindow {
	current := timecalc.WeekKeys(ref, 0)
	previous := timecalc.WeekKeys(ref, -1)

	days := dedupe(summaries)
	w := WeeklyWindow{WeekStart: current[0], WeekEnd: current[6]}

	for _, key := range current {
		day, ok := days[key]
		if !ok {
			continue
		}
		w.DaysInWeek++
		w.WeeklyDriveMinutes += day.TotalDriveMinutes
		if day.TotalDriveMinutes > a.limits.DailyDriveLimit {
			w.ExtendedDriveDayCount++
		}
		if a.detector.ReducedRest(day) {
			w.ReducedRestDayCount++
		}
	}
	for _, key := range previous {
		if day, ok := days[key]; ok {
			w.PreviousDriveMinutes += day.TotalDriveMinutes
		}
	}
	w.BiWeeklyDriveMinutes = w.WeeklyDriveMinutes + w.PreviousDriveMinutes
	return w
}

// dedupe indexes summaries by date. When a date appears more than once the
// entry with the larger amplitude wins, then the larger drive total, so the
// outcome does not depend on input order.
func dedupe(summaries []model.DailySummary) map[string]model.DailySummary {
	days := make(map[string]model.DailySummary, len(summaries))
	for _, s := range summaries {
		if _, err := timecalc.ParseDateKey(s.Date); err != nil {
			continue
		}
		prev, ok := days[s.Date]
		if !ok || later(s, prev) {
			days[s.Date] = s
		}
	}
	return days
}

func later(a, b model.DailySummary) bool {
	if a.AmplitudeMinutes != b.AmplitudeMinutes {
		return a.AmplitudeMinutes > b.AmplitudeMinutes
	}
	if a.TotalDriveMinutes != b.TotalDriveMinutes {
		return a.TotalDriveMinutes > b.TotalDriveMinutes
	}
	return a.TotalWorkMinutes+a.TotalAvailableMinutes+a.TotalRestMinutes >
		b.TotalWorkMinutes+b.TotalAvailableMinutes+b.TotalRestMinutes
}
