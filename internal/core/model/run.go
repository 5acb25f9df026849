package model

import "time"

// Run is the outcome of one detection call.
type Run struct {
	ID          string          `json:"id" yaml:"id"`
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generatedAt"`
	Summary     Summary         `json:"summary" yaml:"summary"`
	Conflicts   []ConflictGroup `json:"conflicts" yaml:"conflicts"`
}
