package metrics

import (
	"os"
	"path/filepath"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
)

func sample() compliance.Evaluation {
	return compliance.Evaluation{
		Today: model.DailySummary{TotalDriveMinutes: 250, TotalWorkMinutes: 40, AmplitudeMinutes: 330},
		State: compliance.ContinuousState{ContinuousDriveMinutes: 250, ContinuousServiceMinutes: 290},
		Timer: compliance.BreakTimer{RemainingMinutes: 20, Cap: compliance.CapDrive, Severity: compliance.SeverityWarning},
		Window: compliance.WeeklyWindow{
			WeeklyDriveMinutes:    1900,
			PreviousDriveMinutes:  2400,
			BiWeeklyDriveMinutes:  4300,
			ExtendedDriveDayCount: 1,
			ReducedRestDayCount:   2,
		},
		Classification: compliance.Classification{
			Drive:    compliance.Status{Severity: compliance.SeverityNormal},
			Rest:     compliance.Status{Severity: compliance.SeverityCritical},
			Weekly:   compliance.Status{Severity: compliance.SeverityNormal},
			BiWeekly: compliance.Status{Severity: compliance.SeverityActive},
		},
	}
}

func value(t *testing.T, m interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	out := &dto.Metric{}
	require.NoError(t, m.Write(out))
	return out.GetGauge().GetValue()
}

func TestObserve(t *testing.T) {
	g := New()
	g.Observe(sample(), true)

	assert.Equal(t, 1.0, value(t, g.active))
	assert.Equal(t, 250.0, value(t, g.continuous.WithLabelValues("drive")))
	assert.Equal(t, 290.0, value(t, g.continuous.WithLabelValues("service")))
	assert.Equal(t, 20.0, value(t, g.remaining))
	assert.Equal(t, 330.0, value(t, g.today.WithLabelValues("amplitude")))
	assert.Equal(t, 4300.0, value(t, g.window.WithLabelValues("biweekly")))
	assert.Equal(t, 2.0, value(t, g.dayCounts.WithLabelValues("reduced_rest")))
	assert.Equal(t, 2.0, value(t, g.severity.WithLabelValues("break")))
	assert.Equal(t, 3.0, value(t, g.severity.WithLabelValues("rest")))
	assert.Equal(t, 1.0, value(t, g.severity.WithLabelValues("biweekly")))
	assert.Positive(t, value(t, g.lastSnapshot))

	g.Observe(compliance.Evaluation{}, false)
	assert.Equal(t, 0.0, value(t, g.active))
}

func TestWriteTextfile(t *testing.T) {
	g := New()
	g.Observe(sample(), true)

	path := filepath.Join(t.TempDir(), "tacho.prom")
	require.NoError(t, g.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "# TYPE tacho_continuous_minutes gauge")
	assert.Contains(t, text, `tacho_continuous_minutes{counter="drive"} 250`)
	assert.Contains(t, text, `tacho_severity{check="rest"} 3`)
	assert.Contains(t, text, "tacho_break_remaining_minutes 20")
}
