// internal/report/history.go
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// historyFileName stores one overall score per completed run, oldest first.
const historyFileName = "history.json"

// HistoryEntry records the overall score of one completed run.
type HistoryEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Model     string    `json:"model,omitempty"`
	Score     float64   `json:"score"`
}

// LoadHistory reads prior run scores from the results directory. A missing
// file is not an error; it just means this is the first run.
func LoadHistory(resultsDir string) ([]HistoryEntry, error) {
	path := filepath.Join(resultsDir, historyFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading score history: %w", err)
	}

	var entries []HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("error parsing score history: %w", err)
	}
	return entries, nil
}

// AppendHistory records a completed run's overall score.
func AppendHistory(resultsDir string, entry HistoryEntry) error {
	entries, err := LoadHistory(resultsDir)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding score history: %w", err)
	}
	if err := os.WriteFile(filepath.Join(resultsDir, historyFileName), data, 0644); err != nil {
		return fmt.Errorf("error writing score history: %w", err)
	}
	return nil
}

// Scores extracts just the score series from history entries.
func Scores(entries []HistoryEntry) []float64 {
	scores := make([]float64, len(entries))
	for i, entry := range entries {
		scores[i] = entry.Score
	}
	return scores
}
