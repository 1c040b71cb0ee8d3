// Package compliance replays a driver's duty events and classifies the result
// against EU-style driving and working time limits.
//
// Everything in this package is a pure function of its arguments. Callers pass
// the current time explicitly and re-invoke the functions whenever they want a
// fresh reading.
package compliance

// Default thresholds, in minutes unless noted.
const (
	DriveCapMin               = 270  // continuous driving before a break is owed
	ServiceCapMin             = 360  // continuous service before a break is owed
	FullBreakMin              = 45   // rest that resets both continuous counters
	PartialBreakMin           = 30   // rest that resets service, and drive as a split's second part
	SplitFirstPartMin         = 15   // shortest rest accepted as a split's first part
	DailyDriveLimitMin        = 540  // 9h daily drive
	MaxAmplitudeMin           = 780  // 13h daily amplitude
	WeeklyDriveLimitMin       = 3360 // 56h weekly drive
	BiWeeklyDriveLimitMin     = 5400 // 90h over two consecutive weeks
	MaxDriveExtensionsPerWeek = 2    // days per week allowed up to 10h
	MaxReducedRestsPerWeek    = 3    // reduced daily rests per week
	BreakWarningMin           = 30   // break timer turns to warning at or below this
)

// Limits groups every threshold the engine, aggregator and classifier use.
type Limits struct {
	DriveCap           int `toml:"drive_cap" env:"TACHO_LIMIT_DRIVE_CAP"`
	ServiceCap         int `toml:"service_cap" env:"TACHO_LIMIT_SERVICE_CAP"`
	FullBreak          int `toml:"full_break" env:"TACHO_LIMIT_FULL_BREAK"`
	PartialBreak       int `toml:"partial_break" env:"TACHO_LIMIT_PARTIAL_BREAK"`
	SplitFirstPart     int `toml:"split_first_part" env:"TACHO_LIMIT_SPLIT_FIRST_PART"`
	DailyDriveLimit    int `toml:"daily_drive" env:"TACHO_LIMIT_DAILY_DRIVE"`
	MaxAmplitude       int `toml:"max_amplitude" env:"TACHO_LIMIT_MAX_AMPLITUDE"`
	WeeklyDriveLimit   int `toml:"weekly_drive" env:"TACHO_LIMIT_WEEKLY_DRIVE"`
	BiWeeklyDriveLimit int `toml:"biweekly_drive" env:"TACHO_LIMIT_BIWEEKLY_DRIVE"`
	MaxDriveExtensions int `toml:"max_drive_extensions" env:"TACHO_LIMIT_MAX_DRIVE_EXTENSIONS"`
	MaxReducedRests    int `toml:"max_reduced_rests" env:"TACHO_LIMIT_MAX_REDUCED_RESTS"`
	BreakWarning       int `toml:"break_warning" env:"TACHO_LIMIT_BREAK_WARNING"`
}

// DefaultLimits returns the built-in thresholds.
func DefaultLimits() Limits {
	return Limits{
		DriveCap:           DriveCapMin,
		ServiceCap:         ServiceCapMin,
		FullBreak:          FullBreakMin,
		PartialBreak:       PartialBreakMin,
		SplitFirstPart:     SplitFirstPartMin,
		DailyDriveLimit:    DailyDriveLimitMin,
		MaxAmplitude:       MaxAmplitudeMin,
		WeeklyDriveLimit:   WeeklyDriveLimitMin,
		BiWeeklyDriveLimit: BiWeeklyDriveLimitMin,
		MaxDriveExtensions: MaxDriveExtensionsPerWeek,
		MaxReducedRests:    MaxReducedRestsPerWeek,
		BreakWarning:       BreakWarningMin,
	}
}

// WithDefaults returns l with every non-positive field replaced by its
// built-in value.
func (l Limits) WithDefaults() Limits {
	d := DefaultLimits()
	fill := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	fill(&l.DriveCap, d.DriveCap)
	fill(&l.ServiceCap, d.ServiceCap)
	fill(&l.FullBreak, d.FullBreak)
	fill(&l.PartialBreak, d.PartialBreak)
	fill(&l.SplitFirstPart, d.SplitFirstPart)
	fill(&l.DailyDriveLimit, d.DailyDriveLimit)
	fill(&l.MaxAmplitude, d.MaxAmplitude)
	fill(&l.WeeklyDriveLimit, d.WeeklyDriveLimit)
	fill(&l.BiWeeklyDriveLimit, d.BiWeeklyDriveLimit)
	fill(&l.MaxDriveExtensions, d.MaxDriveExtensions)
	fill(&l.MaxReducedRests, d.MaxReducedRests)
	fill(&l.BreakWarning, d.BreakWarning)
	return l
}
