package models

import (
	"time"
)

// Grade is the scored result of a submission. The unique index on
// SubmissionID backs the at-most-one-grade-per-submission guarantee; the
// grading service upserts on that key.
type Grade struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	SubmissionID uint      `json:"submission_id" gorm:"not null;uniqueIndex"`
	RawScore     float64   `json:"raw_score" gorm:"not null"`
	CorrectCount int       `json:"correct_count" gorm:"not null"`
	TotalCount   int       `json:"total_count" gorm:"not null"`
	Band         float64   `json:"band" gorm:"not null"`
	FinalScore   float64   `json:"final_score" gorm:"not null"`
	GradedAt     time.Time `json:"graded_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Submission Submission `json:"submission,omitempty" gorm:"foreignKey:SubmissionID"`
}

func (Grade) TableName() string {
	return "grades"
}
