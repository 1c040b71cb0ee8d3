package compliance

import "fmt"

// Reason identifies why a Status has its severity.
type Reason string

const (
	ReasonExtensionAvailable   Reason = "extension_available"
	ReasonMustStopAt9h         Reason = "must_stop_at_9h"
	ReasonExtensionActive      Reason = "extension_active"
	ReasonExtensionViolation   Reason = "extension_violation"
	ReasonReducedRestAvailable Reason = "reduced_rest_available"
	ReasonFullRestRequired     Reason = "full_rest_required"
	ReasonReducedRestRequired  Reason = "reduced_rest_required"
	ReasonReducedRestExhausted Reason = "reduced_rest_exhausted"
	ReasonWeeklyWithin         Reason = "weekly_within"
	ReasonWeeklyExceeded       Reason = "weekly_exceeded"
	ReasonBiWeeklyWithin       Reason = "biweekly_within"
	ReasonBiWeeklyExceeded     Reason = "biweekly_exceeded"
)

// Status is one classified regulation. Used and Limit carry the figures the
// reason refers to: minutes for the weekly caps, day counts for the quotas.
type Status struct {
	Severity Severity `json:"severity"`
	Reason   Reason   `json:"reason"`
	Used     int      `json:"used"`
	Limit    int      `json:"limit"`
}

// Violation reports whether the status is a breach rather than a heads-up.
func (s Status) Violation() bool {
	switch s.Reason {
	case ReasonExtensionViolation, ReasonReducedRestExhausted, ReasonWeeklyExceeded, ReasonBiWeeklyExceeded:
		return true
	}
	return false
}

// Message renders the status for display.
func (s Status) Message() string {
	switch s.Reason {
	case ReasonExtensionAvailable:
		return fmt.Sprintf("9h (10h OK - %d left)", s.Limit-s.Used)
	case ReasonMustStopAt9h:
		return "Max 9h today (no extension left)"
	case ReasonExtensionActive:
		return fmt.Sprintf("10h extension active (%d/%d used)", s.Used, s.Limit)
	case ReasonExtensionViolation:
		return fmt.Sprintf("Violation: 9h+ (used: %d)", s.Used)
	case ReasonReducedRestAvailable:
		return fmt.Sprintf("11h or 9h rest possible (%d left)", s.Limit-s.Used)
	case ReasonFullRestRequired:
		return "11h rest required (no reduced left)"
	case ReasonReducedRestRequired:
		return fmt.Sprintf("9h rest (13h amplitude max). Reduced rest: %d/%d", s.Used+1, s.Limit)
	case ReasonReducedRestExhausted:
		return "Violation: 13h amplitude max + no reduced rest left!"
	case ReasonWeeklyWithin, ReasonWeeklyExceeded, ReasonBiWeeklyWithin, ReasonBiWeeklyExceeded:
		msg := fmt.Sprintf("%dh%02d / %dh", s.Used/60, s.Used%60, s.Limit/60)
		if s.Violation() {
			msg = "Violation: " + msg
		}
		return msg
	}
	return string(s.Reason)
}

// Classification is the classifier's verdict on the four regulations.
type Classification struct {
	Drive    Status `json:"drive"`
	Rest     Status `json:"rest"`
	Weekly   Status `json:"weekly"`
	BiWeekly Status `json:"biweekly"`
}

// Classify grades today's counters and the weekly window.
func Classify(st ContinuousState, w WeeklyWindow, limits Limits) Classification {
	limits = limits.WithDefaults()
	return Classification{
		Drive:    classifyDrive(st.TotalDrive, w.ExtendedDriveDayCount, limits),
		Rest:     classifyRest(st.AmplitudeMinutes, w.ReducedRestDayCount, limits),
		Weekly:   classifyCap(w.WeeklyDriveMinutes, limits.WeeklyDriveLimit, ReasonWeeklyWithin, ReasonWeeklyExceeded),
		BiWeekly: classifyCap(w.BiWeeklyDriveMinutes, limits.BiWeeklyDriveLimit, ReasonBiWeeklyWithin, ReasonBiWeeklyExceeded),
	}
}

func classifyDrive(totalDrive, extensions int, limits Limits) Status {
	s := Status{Used: extensions, Limit: limits.MaxDriveExtensions}
	switch {
	case totalDrive > limits.DailyDriveLimit && extensions <= limits.MaxDriveExtensions:
		s.Severity, s.Reason = SeverityActive, ReasonExtensionActive
	case totalDrive > limits.DailyDriveLimit:
		s.Severity, s.Reason = SeverityWarning, ReasonExtensionViolation
	case extensions < limits.MaxDriveExtensions:
		s.Severity, s.Reason = SeverityNormal, ReasonExtensionAvailable
	default:
		s.Severity, s.Reason = SeverityWarning, ReasonMustStopAt9h
	}
	return s
}

func classifyRest(amplitude, reduced int, limits Limits) Status {
	s := Status{Used: reduced, Limit: limits.MaxReducedRests}
	switch {
	case amplitude > limits.MaxAmplitude && reduced < limits.MaxReducedRests:
		s.Severity, s.Reason = SeverityWarning, ReasonReducedRestRequired
	case amplitude > limits.MaxAmplitude:
		s.Severity, s.Reason = SeverityCritical, ReasonReducedRestExhausted
	case reduced < limits.MaxReducedRests:
		s.Severity, s.Reason = SeverityNormal, ReasonReducedRestAvailable
	default:
		s.Severity, s.Reason = SeverityNormal, ReasonFullRestRequired
	}
	return s
}

func classifyCap(used, limit int, within, exceeded Reason) Status {
	s := Status{Severity: SeverityNormal, Reason: within, Used: used, Limit: limit}
	if used > limit {
		s.Severity, s.Reason = SeverityWarning, exceeded
	}
	return s
}
