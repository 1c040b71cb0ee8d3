package compliance

import (
	"errors"
	"fmt"

	"github.com/Tiliavir/tacho-tracker/internal/model"
)

var (
	ErrUnknownKind      = errors.New("unknown event kind")
	ErrNegativeDuration = errors.New("negative duration")
	ErrEndBeforeStart   = errors.New("end before start")
	ErrOutOfOrder       = errors.New("event starts before the previous one")
	ErrNotContiguous    = errors.New("event does not start where the previous one ended")
)

// Validate checks events against the log contract: known kinds, non-negative
// durations, ends after starts, chronological order and contiguity between
// closed events. It returns every violation found joined into one error, or
// nil. ComputeContinuousState does not call Validate; it normalizes instead.
func Validate(events []model.DutyEvent) error {
	var errs []error
	for i, ev := range events {
		if !ev.Kind.IsKind() {
			errs = append(errs, fmt.Errorf("event %d: %w %q", i, ErrUnknownKind, ev.Kind))
		}
		if ev.DurationMinutes < 0 {
			errs = append(errs, fmt.Errorf("event %d: %w (%d min)", i, ErrNegativeDuration, ev.DurationMinutes))
		}
		if ev.End != nil && ev.End.Before(ev.Start) {
			errs = append(errs, fmt.Errorf("event %d: %w", i, ErrEndBeforeStart))
		}
		if i == 0 {
			continue
		}
		prev := events[i-1]
		if ev.Start.Before(prev.Start) {
			errs = append(errs, fmt.Errorf("event %d: %w", i, ErrOutOfOrder))
			continue
		}
		if prev.End != nil && !prev.End.Equal(ev.Start) {
			errs = append(errs, fmt.Errorf("event %d: %w", i, ErrNotContiguous))
		}
	}
	return errors.Join(errs...)
}
