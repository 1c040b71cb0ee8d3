package compliance

// BreakAlertMarginMin is how long before a cap the early alert fires.
const BreakAlertMarginMin = 15

// Severity grades a compliance reading.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityActive   Severity = "active"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Cap names the limit that binds the break timer.
type Cap string

const (
	CapDrive   Cap = "drive"
	CapService Cap = "service"
)

// BreakTimer is the time left before the next mandatory break.
type BreakTimer struct {
	RemainingMinutes int      `json:"remaining_minutes"`
	Cap              Cap      `json:"cap"`
	Severity         Severity `json:"severity"`
	DriveRemaining   int      `json:"drive_remaining_minutes"`
	ServiceRemaining int      `json:"service_remaining_minutes"`
	// DriveAlert and ServiceAlert fire BreakAlertMarginMin before each cap.
	DriveAlert   bool `json:"drive_alert"`
	ServiceAlert bool `json:"service_alert"`
}

// RemainingToBreak applies the drive and service caps to the continuous
// counters and reports the more urgent one. On a tie the service cap is
// reported.
func RemainingToBreak(st ContinuousState, limits Limits) BreakTimer {
	limits = limits.WithDefaults()
	bt := BreakTimer{
		DriveRemaining:   limits.DriveCap - st.ContinuousDriveMinutes,
		ServiceRemaining: limits.ServiceCap - st.ContinuousServiceMinutes,
		DriveAlert:       st.ContinuousDriveMinutes > limits.DriveCap-BreakAlertMarginMin,
		ServiceAlert:     st.ContinuousServiceMinutes > limits.ServiceCap-BreakAlertMarginMin,
	}
	if bt.DriveRemaining < bt.ServiceRemaining {
		bt.RemainingMinutes, bt.Cap = bt.DriveRemaining, CapDrive
	} else {
		bt.RemainingMinutes, bt.Cap = bt.ServiceRemaining, CapService
	}

	switch {
	case bt.RemainingMinutes <= 0:
		bt.Severity = SeverityCritical
	case bt.RemainingMinutes <= limits.BreakWarning:
		bt.Severity = SeverityWarning
	default:
		bt.Severity = SeverityNormal
	}
	return bt
}

// Overtime reports whether the binding cap has been exceeded.
func (b BreakTimer) Overtime() bool {
	return b.RemainingMinutes < 0
}

// UsedPercent is the share of the binding cap already consumed, clamped to
// [0, 100].
func (b BreakTimer) UsedPercent(limits Limits) float64 {
	limits = limits.WithDefaults()
	limit := limits.DriveCap
	if b.Cap == CapService {
		limit = limits.ServiceCap
	}
	p := float64(limit-b.RemainingMinutes) / float64(limit) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
