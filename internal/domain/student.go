package domain

import (
	"time"

	"github.com/google/uuid"
)

// Student representa uma identidade cadastrada no sistema
type Student struct {
	ID            uuid.UUID `json:"id"`
	ExternalID    string    `json:"external_id"`
	Name          string    `json:"name"`
	GuardianEmail string    `json:"guardian_email,omitempty"`
	GuardianPhone string    `json:"guardian_phone,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ReferenceEmbedding is one enrolled face vector for a student. A student may
// own several, captured under different pose and lighting.
type ReferenceEmbedding struct {
	ID        uuid.UUID `json:"id"`
	StudentID uuid.UUID `json:"-"`
	Vector    []float64 `json:"-"`
	SourceImg string    `json:"source_img,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
