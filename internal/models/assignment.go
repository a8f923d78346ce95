package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AssignmentType string

const (
	AssignmentReading   AssignmentType = "reading"
	AssignmentListening AssignmentType = "listening"
	AssignmentWriting   AssignmentType = "writing"
	AssignmentSpeaking  AssignmentType = "speaking"
)

// Assignment is a published IELTS mock test. Config holds the versioned
// section/question definition the scorer walks; it is immutable per revision.
type Assignment struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Title       string         `json:"title" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Description *string        `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Type        AssignmentType `json:"type" gorm:"not null;index" validate:"required,assignment_type"`
	Config      datatypes.JSON `json:"config" gorm:"type:jsonb;not null"`
	DueDate     *time.Time     `json:"due_date"`

	CreatedBy string         `json:"created_by" gorm:"not null;size:100;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Submissions []Submission `json:"submissions,omitempty" gorm:"foreignKey:AssignmentID"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// IsObjective reports whether submissions for this assignment type can be
// scored automatically. Writing and speaking need a human grader.
func (a *Assignment) IsObjective() bool {
	return a.Type == AssignmentReading || a.Type == AssignmentListening
}
