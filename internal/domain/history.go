package domain

import "time"

// SynthesisRecord is one persisted synthesis pass.
type SynthesisRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Query      string    `json:"query"`
	Program    string    `json:"program"`
	DSL        string    `json:"dsl"`
	Command    string    `json:"command"`
	Resolver   string    `json:"resolver"`
	Confidence float64   `json:"confidence"`
	Degraded   bool      `json:"degraded"`
	Succeeded  bool      `json:"succeeded"`
	DurationMS int64     `json:"duration_ms"`
}
