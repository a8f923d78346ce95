package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusDraft     SubmissionStatus = "draft"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusLate      SubmissionStatus = "late"
	SubmissionStatusGraded    SubmissionStatus = "graded"
)

// IsFinal reports whether the status counts against the attempt limit.
// Drafts do not consume an attempt.
func (s SubmissionStatus) IsFinal() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusLate || s == SubmissionStatusGraded
}

// Submission is one student attempt at an assignment. Status only moves
// forward: draft -> submitted/late -> graded.
type Submission struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	AssignmentID uint             `json:"assignment_id" gorm:"not null;index:idx_submissions_assignment_student"`
	StudentID    string           `json:"student_id" gorm:"not null;size:100;index:idx_submissions_assignment_student"`
	Status       SubmissionStatus `json:"status" gorm:"not null;default:draft;index" validate:"omitempty,submission_status"`
	Payload      datatypes.JSON   `json:"payload" gorm:"type:jsonb;not null"`
	SubmittedAt  *time.Time       `json:"submitted_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Assignment Assignment `json:"assignment,omitempty" gorm:"foreignKey:AssignmentID"`
	Grade      *Grade     `json:"grade,omitempty" gorm:"foreignKey:SubmissionID"`
}

func (Submission) TableName() string {
	return "submissions"
}
