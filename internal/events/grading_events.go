package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
)

// EventType represents different types of grading events
type EventType string

const (
	// Submission lifecycle events
	EventSubmissionCreated       EventType = "submission.created"
	EventSubmissionAutoSubmitted EventType = "submission.auto_submitted"
	EventSubmissionLate          EventType = "submission.late"

	// Grading events
	EventSubmissionGraded      EventType = "submission.graded"
	EventManualGradingRequired EventType = "grading.manual_required"
)

const eventSource = "ielts-grading-service"

// GradingEvent is the base event structure for all grading events
type GradingEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewGradingEvent stamps the envelope fields around a payload.
func NewGradingEvent(eventType EventType, data interface{}) *GradingEvent {
	return &GradingEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   "1.0",
		Data:      data,
	}
}

// Submission lifecycle event payloads

type SubmissionCreatedEvent struct {
	SubmissionID uint                    `json:"submission_id"`
	AssignmentID uint                    `json:"assignment_id"`
	StudentID    string                  `json:"student_id"`
	Status       models.SubmissionStatus `json:"status"`
	SubmittedAt  *time.Time              `json:"submitted_at,omitempty"`
}

// Grading event payloads

type SubmissionGradedEvent struct {
	SubmissionID uint      `json:"submission_id"`
	AssignmentID uint      `json:"assignment_id"`
	StudentID    string    `json:"student_id"`
	RawScore     float64   `json:"raw_score"`
	CorrectCount int       `json:"correct_count"`
	TotalCount   int       `json:"total_count"`
	Band         float64   `json:"band"`
	FinalScore   float64   `json:"final_score"`
	GradedAt     time.Time `json:"graded_at"`
}

type ManualGradingRequiredEvent struct {
	SubmissionID   uint                  `json:"submission_id"`
	AssignmentID   uint                  `json:"assignment_id"`
	StudentID      string                `json:"student_id"`
	AssignmentType models.AssignmentType `json:"assignment_type"`
}
