package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func TestBar(t *testing.T) {
	tests := []struct {
		percent float64
		width   int
		want    string
	}{
		{0, 4, "[....]"},
		{50, 4, "[##..]"},
		{100, 4, "[####]"},
		{140, 4, "[####]"},
		{-10, 4, "[....]"},
		{50, 0, ""},
	}
	for _, tt := range tests {
		if got := Bar(tt.percent, tt.width, compliance.SeverityNormal); got != tt.want {
			t.Errorf("Bar(%v, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	if got := Status(model.StatusDrive); got != "DRIVE" {
		t.Errorf("Status(drive) = %q", got)
	}
	if got := Status(model.Status("bogus")); got != "BOGUS" {
		t.Errorf("Status(bogus) = %q", got)
	}
}

func TestCheckMarksSeverity(t *testing.T) {
	crit := compliance.Status{Severity: compliance.SeverityCritical, Reason: compliance.ReasonReducedRestExhausted}
	if got := Check(crit); !strings.HasPrefix(got, "!! ") {
		t.Errorf("critical check = %q, want !! prefix", got)
	}
	ok := compliance.Status{Severity: compliance.SeverityNormal, Reason: compliance.ReasonWeeklyWithin, Used: 600, Limit: 3360}
	if got := Check(ok); got != "10h00 / 56h" {
		t.Errorf("normal check = %q", got)
	}
}

func TestPad(t *testing.T) {
	if got := Pad("Break", 8); got != "Break   " {
		t.Errorf("Pad = %q", got)
	}
	if got := Pad("Überholung", 12); got != "Überholung  " {
		t.Errorf("Pad counts display columns, got %q", got)
	}
	if got := Pad("too long", 3); got != "too long" {
		t.Errorf("Pad must not truncate, got %q", got)
	}
}
