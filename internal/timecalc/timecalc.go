package timecalc

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the civil-date key used for day files and summaries.
const DateLayout = "2006-01-02"

// DateKey returns the YYYY-MM-DD key of the calendar day t falls on in its
// own location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDateKey parses a YYYY-MM-DD key into midnight UTC of that civil date.
func ParseDateKey(key string) (time.Time, error) {
	d, err := time.Parse(DateLayout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", key, err)
	}
	return d, nil
}

// civil strips the clock and zone from t, keeping only its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Monday returns midnight UTC of the Monday of the week containing t's
// calendar date.
func Monday(t time.Time) time.Time {
	c := civil(t)
	back := (int(c.Weekday()) + 6) % 7 // days since Monday
	return c.AddDate(0, 0, -back)
}

// WeekKeys returns the seven date keys Monday..Sunday of the week containing
// t, shifted by offset weeks (offset -1 is the previous week).
func WeekKeys(t time.Time, offset int) []string {
	monday := Monday(t).AddDate(0, 0, 7*offset)
	keys := make([]string, 7)
	for i := range keys {
		keys[i] = DateKey(monday.AddDate(0, 0, i))
	}
	return keys
}

// WeekRange returns the start of Monday and the last second of Sunday of the
// ISO week containing t, in t's location.
func WeekRange(t time.Time) (time.Time, time.Time) {
	y, m, d := Monday(t).Date()
	monday := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	sunday := time.Date(y, m, d+6, 23, 59, 59, 0, t.Location())
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// MinutesBetween returns the whole minutes elapsed from a to b, rounded down.
// It never returns a negative value.
func MinutesBetween(a, b time.Time) int {
	if !b.After(a) {
		return 0
	}
	return int(b.Sub(a) / time.Minute)
}

// FormatMinutes formats minutes as "4h30". Negative values get a leading "-".
func FormatMinutes(minutes int) string {
	sign := ""
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return fmt.Sprintf("%s%dh%02d", sign, minutes/60, minutes%60)
}

// ParseClock parses "HH:MM" as a time on the calendar day of ref, in ref's
// location.
func ParseClock(s string, ref time.Time) (time.Time, error) {
	c, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (want HH:MM): %w", s, err)
	}
	return time.Date(ref.Year(), ref.Month(), ref.Day(), c.Hour(), c.Minute(), 0, 0, ref.Location()), nil
}
