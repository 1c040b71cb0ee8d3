package model

import "time"

// Status is a duty status. Idle is only ever held by AppState; events are
// always one of the four recorded kinds.
type Status string

const (
	StatusDrive     Status = "Drive"
	StatusWork      Status = "Work"
	StatusAvailable Status = "Available"
	StatusRest      Status = "Rest"
	StatusIdle      Status = "Idle"
)

// Kinds lists the statuses that can be recorded as events, in display order.
var Kinds = []Status{StatusDrive, StatusWork, StatusAvailable, StatusRest}

// IsKind reports whether s is a recordable event kind.
func (s Status) IsKind() bool {
	switch s {
	case StatusDrive, StatusWork, StatusAvailable, StatusRest:
		return true
	}
	return false
}

// DutyEvent is a single closed period in one duty status.
type DutyEvent struct {
	Kind            Status     `json:"type" yaml:"type"`
	Start           time.Time  `json:"start_time" yaml:"start_time"`
	End             *time.Time `json:"end_time,omitempty" yaml:"end_time,omitempty"`
	DurationMinutes int        `json:"duration" yaml:"duration"`
	Note            *string    `json:"note,omitempty" yaml:"note,omitempty"`
}

// ShiftContext describes the mission a driver is working on.
type ShiftContext struct {
	Client string `json:"client" yaml:"client"`
	Route  string `json:"route" yaml:"route"`
	Cargo  string `json:"cargo" yaml:"cargo"`
	Notes  string `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// ShiftSegment marks the moment a mission became active.
type ShiftSegment struct {
	Start   time.Time    `json:"start_time" yaml:"start_time"`
	Context ShiftContext `json:"context" yaml:"context"`
}

// DailySummary holds the per-day counters used by the weekly aggregation.
type DailySummary struct {
	Date                  string `json:"date" yaml:"date"`
	TotalDriveMinutes     int    `json:"total_drive_minutes" yaml:"total_drive_minutes"`
	TotalWorkMinutes      int    `json:"total_work_minutes" yaml:"total_work_minutes"`
	TotalAvailableMinutes int    `json:"total_available_minutes" yaml:"total_available_minutes"`
	TotalRestMinutes      int    `json:"total_rest_minutes" yaml:"total_rest_minutes"`
	AmplitudeMinutes      int    `json:"amplitude_minutes" yaml:"amplitude_minutes"`
}

// DayFile is the top-level structure stored in each daily JSON file.
type DayFile struct {
	Date     string         `json:"date" yaml:"date"`
	Segments []ShiftSegment `json:"segments" yaml:"segments"`
	Events   []DutyEvent    `json:"events" yaml:"events"`
	Stats    DailySummary   `json:"stats" yaml:"stats"`
}

// AppState is the small mutable record of what the driver is doing right now.
type AppState struct {
	CurrentStatus    Status    `json:"current_status"`
	LastStatusChange time.Time `json:"last_status_change"`
	// CurrentDay is the date key of the open day, empty when no day is open.
	CurrentDay string `json:"current_day"`
}

// Active reports whether a status is open.
func (s AppState) Active() bool {
	return s.CurrentStatus != "" && s.CurrentStatus != StatusIdle
}
