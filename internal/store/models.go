package store

import "time"

// Scan describes one persisted scan run.
type Scan struct {
	ID         string    `json:"id"`
	Root       string    `json:"root"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	FileCount  int       `json:"file_count"`
}

// Duration returns how long the scan ran, or 0 if it never finished.
func (s Scan) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
