package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"gorm.io/gorm"
)

// ===== SENTINEL ERRORS =====

// ErrAttemptLimitExceeded is returned by CreateWithAttemptCheck when the
// student already holds maxAttempts counted submissions. Enforced inside the
// insert transaction, not by a read-then-write in the caller.
var ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")

// IsNotFoundError checks if error represents a "record not found" condition
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ===== SHARED FILTER STRUCTS =====

type AssignmentFilters struct {
	Type      *models.AssignmentType `json:"type"`
	CreatedBy *string                `json:"created_by"`
	DateFrom  *time.Time             `json:"date_from"`
	DateTo    *time.Time             `json:"date_to"`
	Limit     int                    `json:"limit"`
	Offset    int                    `json:"offset"`
	SortBy    string                 `json:"sort_by"`    // "created_at", "title", "due_date"
	SortOrder string                 `json:"sort_order"` // "asc", "desc"
}

type SubmissionFilters struct {
	Status       *models.SubmissionStatus `json:"status"`
	AssignmentID *uint                    `json:"assignment_id"`
	StudentID    *string                  `json:"student_id"`
	DateFrom     *time.Time               `json:"date_from"`
	DateTo       *time.Time               `json:"date_to"`
	Limit        int                      `json:"limit"`
	Offset       int                      `json:"offset"`
	SortBy       string                   `json:"sort_by"`
	SortOrder    string                   `json:"sort_order"`
}

// ===== REPOSITORY INTERFACES =====

// Repository bundles the per-aggregate repositories and provides a
// transactional scope for operations that must commit atomically.
type Repository interface {
	Assignment() AssignmentRepository
	Submission() SubmissionRepository
	Grade() GradeRepository

	// WithTx runs fn against a Repository bound to a single transaction.
	// A non-nil error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(Repository) error) error
}

// AssignmentRepository interface for assignment operations
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	GetByID(ctx context.Context, id uint) (*models.Assignment, error)
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id uint) error // Soft delete
	List(ctx context.Context, filters AssignmentFilters) ([]*models.Assignment, int64, error)
}

// SubmissionRepository interface for submission operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	GetByID(ctx context.Context, id uint) (*models.Submission, error)
	GetByIDWithDetails(ctx context.Context, id uint) (*models.Submission, error) // Include assignment, grade
	Update(ctx context.Context, submission *models.Submission) error
	UpdateStatus(ctx context.Context, id uint, status models.SubmissionStatus) error
	List(ctx context.Context, filters SubmissionFilters) ([]*models.Submission, int64, error)
	GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) ([]*models.Submission, error)

	// CountFinal counts the student's submissions for an assignment whose
	// status consumes an attempt ({submitted, late, graded}).
	CountFinal(ctx context.Context, assignmentID uint, studentID string) (int64, error)

	// CreateWithAttemptCheck atomically re-counts final submissions and
	// inserts, serialized per (assignment, student). maxAttempts nil means
	// unlimited. Returns ErrAttemptLimitExceeded without inserting when the
	// limit is already spent.
	CreateWithAttemptCheck(ctx context.Context, submission *models.Submission, maxAttempts *int) error
}

// GradeRepository interface for grade operations
type GradeRepository interface {
	GetBySubmissionID(ctx context.Context, submissionID uint) (*models.Grade, error)

	// Upsert writes the grade keyed by submission_id. Two racing graders
	// compute identical rows, so the second write is a harmless overwrite.
	Upsert(ctx context.Context, grade *models.Grade) error

	ListByAssignment(ctx context.Context, assignmentID uint) ([]*models.Grade, error)
}
