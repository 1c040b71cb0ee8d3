package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
)

func TestRemainingToBreak(t *testing.T) {
	tests := []struct {
		name     string
		drive    int
		service  int
		want     int
		cap      compliance.Cap
		severity compliance.Severity
	}{
		{"fresh", 0, 0, 270, compliance.CapDrive, compliance.SeverityNormal},
		{"drive binds", 250, 100, 20, compliance.CapDrive, compliance.SeverityWarning},
		{"service binds", 60, 340, 20, compliance.CapService, compliance.SeverityWarning},
		{"tie reports service", 180, 270, 90, compliance.CapService, compliance.SeverityNormal},
		{"warning edge", 240, 240, 30, compliance.CapDrive, compliance.SeverityWarning},
		{"just above warning", 239, 239, 31, compliance.CapDrive, compliance.SeverityNormal},
		{"exactly at cap", 270, 270, 0, compliance.CapDrive, compliance.SeverityCritical},
		{"overtime", 300, 300, -30, compliance.CapDrive, compliance.SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := compliance.ContinuousState{ContinuousDriveMinutes: tt.drive, ContinuousServiceMinutes: tt.service}
			bt := compliance.RemainingToBreak(st, compliance.DefaultLimits())
			assert.Equal(t, tt.want, bt.RemainingMinutes)
			assert.Equal(t, tt.cap, bt.Cap)
			assert.Equal(t, tt.severity, bt.Severity)
		})
	}
}

func TestBreakTimerAlertsAndProgress(t *testing.T) {
	limits := compliance.DefaultLimits()

	bt := compliance.RemainingToBreak(compliance.ContinuousState{ContinuousDriveMinutes: 256, ContinuousServiceMinutes: 300}, limits)
	assert.True(t, bt.DriveAlert)
	assert.False(t, bt.ServiceAlert)
	assert.False(t, bt.Overtime())
	assert.InDelta(t, 256.0/270*100, bt.UsedPercent(limits), 0.001)

	bt = compliance.RemainingToBreak(compliance.ContinuousState{ContinuousDriveMinutes: 300, ContinuousServiceMinutes: 346}, limits)
	assert.True(t, bt.ServiceAlert)
	assert.True(t, bt.Overtime())
	assert.Equal(t, 100.0, bt.UsedPercent(limits))

	bt = compliance.RemainingToBreak(compliance.ContinuousState{}, limits)
	assert.Equal(t, 0.0, bt.UsedPercent(limits))
}

func TestUsedPercentFollowsBindingCap(t *testing.T) {
	limits := compliance.DefaultLimits()

	// 180 drive leaves 90, 330 service leaves 30: the service cap binds.
	bt := compliance.RemainingToBreak(compliance.ContinuousState{ContinuousDriveMinutes: 180, ContinuousServiceMinutes: 330}, limits)
	require.Equal(t, compliance.CapService, bt.Cap)
	assert.InDelta(t, 330.0/360*100, bt.UsedPercent(limits), 0.001)
}
