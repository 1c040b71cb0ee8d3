// Package metrics exposes compliance readings as Prometheus gauges, written to
// a node_exporter textfile by `tacho snapshot`.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
)

// severityLevels maps severities to gauge values, worst highest.
var severityLevels = map[compliance.Severity]float64{
	compliance.SeverityNormal:   0,
	compliance.SeverityActive:   1,
	compliance.SeverityWarning:  2,
	compliance.SeverityCritical: 3,
}

// Gauges holds one reading. Each Gauges has its own registry so the textfile
// only ever contains tacho metrics.
type Gauges struct {
	reg *prometheus.Registry

	active       prometheus.Gauge
	continuous   *prometheus.GaugeVec
	remaining    prometheus.Gauge
	today        *prometheus.GaugeVec
	window       *prometheus.GaugeVec
	dayCounts    *prometheus.GaugeVec
	severity     *prometheus.GaugeVec
	lastSnapshot prometheus.Gauge
}

// New creates and registers the tacho gauges.
func New() *Gauges {
	g := &Gauges{
		reg: prometheus.NewRegistry(),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tacho_duty_active",
			Help: "1 while a duty status is open",
		}),
		// Labels:
		//   - counter: "drive" or "service"
		continuous: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tacho_continuous_minutes",
			Help: "Continuous minutes since the last qualifying break",
		}, []string{"counter"}),
		remaining: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tacho_break_remaining_minutes",
			Help: "Minutes until a break is owed; negative when overdue",
		}),
		// Labels:
		//   - kind: "drive", "work", "available", "rest" or "amplitude"
		today: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tacho_day_minutes",
			Help: "Totals of the open day in minutes",
		}, []string{"kind"}),
		// Labels:
		//   - window: "week", "previous_week" or "biweekly"
		window: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tacho_window_drive_minutes",
			Help: "Drive minutes over the weekly windows",
		}, []string{"window"}),
		// Labels:
		//   - kind: "extended_drive" or "reduced_rest"
		dayCounts: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tacho_week_days",
			Help: "Days this week that used an extension or a reduced rest",
		}, []string{"kind"}),
		// Labels:
		//   - check: "break", "drive", "rest", "weekly" or "biweekly"
		severity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tacho_severity",
			Help: "Severity per check: 0 normal, 1 active, 2 warning, 3 critical",
		}, []string{"check"}),
		lastSnapshot: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tacho_last_snapshot_timestamp_seconds",
			Help: "Unix time of the reading",
		}),
	}
	g.reg.MustRegister(g.active, g.continuous, g.remaining, g.today, g.window, g.dayCounts, g.severity, g.lastSnapshot)
	return g
}

// Observe sets every gauge from ev.
func (g *Gauges) Observe(ev compliance.Evaluation, active bool) {
	if active {
		g.active.Set(1)
	} else {
		g.active.Set(0)
	}

	g.continuous.WithLabelValues("drive").Set(float64(ev.State.ContinuousDriveMinutes))
	g.continuous.WithLabelValues("service").Set(float64(ev.State.ContinuousServiceMinutes))
	g.remaining.Set(float64(ev.Timer.RemainingMinutes))

	g.today.WithLabelValues("drive").Set(float64(ev.Today.TotalDriveMinutes))
	g.today.WithLabelValues("work").Set(float64(ev.Today.TotalWorkMinutes))
	g.today.WithLabelValues("available").Set(float64(ev.Today.TotalAvailableMinutes))
	g.today.WithLabelValues("rest").Set(float64(ev.Today.TotalRestMinutes))
	g.today.WithLabelValues("amplitude").Set(float64(ev.Today.AmplitudeMinutes))

	g.window.WithLabelValues("week").Set(float64(ev.Window.WeeklyDriveMinutes))
	g.window.WithLabelValues("previous_week").Set(float64(ev.Window.PreviousDriveMinutes))
	g.window.WithLabelValues("biweekly").Set(float64(ev.Window.BiWeeklyDriveMinutes))
	g.dayCounts.WithLabelValues("extended_drive").Set(float64(ev.Window.ExtendedDriveDayCount))
	g.dayCounts.WithLabelValues("reduced_rest").Set(float64(ev.Window.ReducedRestDayCount))

	c := ev.Classification
	g.severity.WithLabelValues("break").Set(severityLevels[ev.Timer.Severity])
	g.severity.WithLabelValues("drive").Set(severityLevels[c.Drive.Severity])
	g.severity.WithLabelValues("rest").Set(severityLevels[c.Rest.Severity])
	g.severity.WithLabelValues("weekly").Set(severityLevels[c.Weekly.Severity])
	g.severity.WithLabelValues("biweekly").Set(severityLevels[c.BiWeekly.Severity])

	g.lastSnapshot.SetToCurrentTime()
}

// WriteTextfile atomically writes the current values in the text exposition
// format.
func (g *Gauges) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, g.reg)
}
