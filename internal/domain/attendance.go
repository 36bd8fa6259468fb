package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttendanceRecord is the durable fact that a student was first seen on a
// given calendar day. At most one record exists per (student, date); the
// database enforces this with a unique constraint. Records are never mutated
// or deleted by the pipeline.
type AttendanceRecord struct {
	ID         uuid.UUID `json:"id"`
	StudentID  uuid.UUID `json:"student_id"`
	ExternalID string    `json:"external_id"`
	Date       string    `json:"date"` // YYYY-MM-DD in the configured zone
	Hour       int       `json:"hour"` // hour slot of the first sighting
	MarkedAt   time.Time `json:"marked_at"`
}

// Recognition is an append-only audit row for every match decision, including
// the ones that resolved to unknown.
type Recognition struct {
	ID         uuid.UUID  `json:"id"`
	StudentID  *uuid.UUID `json:"student_id,omitempty"`
	ExternalID string     `json:"external_id,omitempty"`
	Distance   float64    `json:"distance"`
	Matched    bool       `json:"matched"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Observation is transient: one located face region plus its embedding,
// produced and consumed within a single pipeline cycle.
type Observation struct {
	Region    Region
	Embedding []float64
	SeenAt    time.Time
}

// Region is a face bounding box in frame pixel coordinates.
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid reports whether the region has positive area and fits inside a frame
// of the given dimensions. Degenerate regions must be discarded before
// embedding.
func (r Region) Valid(frameWidth, frameHeight int) bool {
	if r.Width <= 0 || r.Height <= 0 {
		return false
	}
	if r.X < 0 || r.Y < 0 {
		return false
	}
	return r.X+r.Width <= frameWidth && r.Y+r.Height <= frameHeight
}

// MatchResult is the outcome of matching one observation against the
// encoding store. Unknown is a normal result, not an error.
type MatchResult struct {
	ExternalID string  `json:"external_id,omitempty"`
	Distance   float64 `json:"distance"`
	Unknown    bool    `json:"unknown"`
}
