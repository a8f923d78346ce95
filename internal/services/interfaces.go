package services

import (
	"context"
	"time"

	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"gorm.io/datatypes"
)

// ===== REQUEST / RESPONSE DTOS =====

type CreateSubmissionRequest struct {
	AssignmentID uint                    `json:"assignment_id" validate:"required"`
	Status       models.SubmissionStatus `json:"status" validate:"omitempty,submission_status"`
	Payload      datatypes.JSON          `json:"payload" validate:"required"`
}

// ===== SERVICE INTERFACES =====

// SubmissionService owns the submission lifecycle: attempt limiting, timing
// windows and auto-submit on timeout.
type SubmissionService interface {
	Create(ctx context.Context, req *CreateSubmissionRequest, studentID string) (*models.Submission, error)
	GetByID(ctx context.Context, id uint, studentID string) (*models.Submission, error)
	List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error)
}

// GradingService scores submissions exactly once each.
type GradingService interface {
	AutoScoreSubmission(ctx context.Context, submissionID uint) (*models.Grade, error)
	GetGrade(ctx context.Context, submissionID uint) (*models.Grade, error)
}

// ExportService renders grade reports.
type ExportService interface {
	ExportAssignmentGrades(ctx context.Context, assignmentID uint) ([]byte, error)
}

// ServiceManager bundles the services for handler wiring.
type ServiceManager interface {
	Submission() SubmissionService
	Grading() GradingService
	Export() ExportService
}

// ===== HELPERS =====

func timePtr(t time.Time) *time.Time {
	return &t
}
