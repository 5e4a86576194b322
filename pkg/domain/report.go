package domain

import (
	"time"

	"github.com/google/uuid"
)

// Report is one compiled submission of an experience.
type Report struct {
	ID           string    `json:"id"`
	ExperienceID string    `json:"experience_id"`
	Title        string    `json:"title"`
	Approved     bool      `json:"approved"`
	Markdown     string    `json:"markdown"`
	Results      Results   `json:"results,omitempty"`
	Comments     Comments  `json:"comments,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewReport creates a report with a fresh ID for exp.
func NewReport(exp *Experience, markdown string) *Report {
	return &Report{
		ID:           uuid.NewString(),
		ExperienceID: exp.ID,
		Title:        exp.Title,
		Markdown:     markdown,
		CreatedAt:    time.Now().UTC(),
	}
}
