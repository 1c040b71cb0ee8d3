package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/tacho-tracker/internal/model"
	"github.com/Tiliavir/tacho-tracker/internal/timecalc"
)

// ErrDayNotFound is returned when a day file that must exist does not.
var ErrDayNotFound = errors.New("day not found")

const stateFileName = "state.json"

// BaseDir returns the root data directory (~/.tacho).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tacho"), nil
}

// dayFilePath returns the path for the given date key's JSON file.
func dayFilePath(base, date string) (string, error) {
	t, err := timecalc.ParseDateKey(date)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json"), nil
}

func emptyDay(date string) model.DayFile {
	return model.DayFile{
		Date:     date,
		Segments: []model.ShiftSegment{},
		Events:   []model.DutyEvent{},
		Stats:    model.DailySummary{Date: date},
	}
}

// LoadDay loads the DayFile for the given date key. Returns an empty DayFile if
// not found.
func LoadDay(base, date string) (model.DayFile, error) {
	df, _, err := loadDay(base, date)
	return df, err
}

func loadDay(base, date string) (model.DayFile, bool, error) {
	path, err := dayFilePath(base, date)
	if err != nil {
		return model.DayFile{}, false, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return emptyDay(date), false, nil
	}
	if err != nil {
		return model.DayFile{}, false, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, false, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if df.Segments == nil {
		df.Segments = []model.ShiftSegment{}
	}
	if df.Events == nil {
		df.Events = []model.DutyEvent{}
	}
	df.Stats.Date = df.Date
	return df, true, nil
}

// SaveDay atomically writes a DayFile under its own date.
func SaveDay(base string, df model.DayFile) error {
	path, err := dayFilePath(base, df.Date)
	if err != nil {
		return err
	}
	df.Stats.Date = df.Date
	return writeJSON(path, df)
}

// DeleteDay removes a whole day. Days are only ever deleted as a unit.
func DeleteDay(base, date string) error {
	path, err := dayFilePath(base, date)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", date, ErrDayNotFound)
		}
		return fmt.Errorf("storage error deleting %s: %w", path, err)
	}
	return nil
}

// LoadRange loads every stored day in [from, to] inclusive. Days without a file
// are skipped.
func LoadRange(base string, from, to time.Time) ([]model.DayFile, error) {
	var days []model.DayFile
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, ok, err := loadDay(base, timecalc.DateKey(d))
		if err != nil {
			return nil, err
		}
		if ok {
			days = append(days, df)
		}
	}
	return days, nil
}

// LoadSummaries returns the stored summaries of the two weeks ending with the
// week that contains ref: the window the weekly aggregation reads.
func LoadSummaries(base string, ref time.Time) ([]model.DailySummary, error) {
	monday := timecalc.Monday(ref)
	days, err := LoadRange(base, monday.AddDate(0, 0, -7), monday.AddDate(0, 0, 6))
	if err != nil {
		return nil, err
	}
	sums := make([]model.DailySummary, 0, len(days))
	for _, df := range days {
		sums = append(sums, df.Stats)
	}
	return sums, nil
}

// LoadState reads the application state. A missing file yields an Idle state.
func LoadState(base string) (model.AppState, error) {
	path := filepath.Join(base, stateFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.AppState{CurrentStatus: model.StatusIdle}, nil
	}
	if err != nil {
		return model.AppState{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	var st model.AppState
	if err := json.Unmarshal(data, &st); err != nil {
		return model.AppState{}, fmt.Errorf("corrupt JSON in %s: %w", path, err)
	}
	if st.CurrentStatus == "" {
		st.CurrentStatus = model.StatusIdle
	}
	return st, nil
}

// SaveState atomically writes the application state.
func SaveState(base string, st model.AppState) error {
	return writeJSON(filepath.Join(base, stateFileName), st)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
