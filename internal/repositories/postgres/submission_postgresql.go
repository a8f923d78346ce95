package postgres

import (
	"context"
	"fmt"

	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"gorm.io/gorm"
)

type SubmissionPostgreSQL struct {
	db *gorm.DB
}

func NewSubmissionPostgreSQL(db *gorm.DB) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db}
}

var finalStatuses = []models.SubmissionStatus{
	models.SubmissionStatusSubmitted,
	models.SubmissionStatusLate,
	models.SubmissionStatusGraded,
}

func (s SubmissionPostgreSQL) Create(ctx context.Context, submission *models.Submission) error {
	return s.db.WithContext(ctx).Create(submission).Error
}

func (s SubmissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s SubmissionPostgreSQL) GetByIDWithDetails(ctx context.Context, id uint) (*models.Submission, error) {
	var submission models.Submission
	if err := s.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Grade").
		First(&submission, id).Error; err != nil {
		return nil, err
	}
	return &submission, nil
}

func (s SubmissionPostgreSQL) Update(ctx context.Context, submission *models.Submission) error {
	return s.db.WithContext(ctx).Save(submission).Error
}

func (s SubmissionPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.SubmissionStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (s SubmissionPostgreSQL) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	var submissions []*models.Submission
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Submission{})
	query = s.applyFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPaginationAndSort(query, filters.Limit, filters.Offset, filters.SortBy, filters.SortOrder)

	if err := query.Preload("Grade").Find(&submissions).Error; err != nil {
		return nil, 0, err
	}

	return submissions, total, nil
}

func (s SubmissionPostgreSQL) GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	if err := s.db.WithContext(ctx).
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Order("created_at ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (s SubmissionPostgreSQL) CountFinal(ctx context.Context, assignmentID uint, studentID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ? AND status IN ?", assignmentID, studentID, finalStatuses).
		Count(&count).Error
	return count, err
}

// CreateWithAttemptCheck serializes racing inserts for the same
// (assignment, student) pair on a transaction-scoped advisory lock, then
// re-counts inside the transaction. Two concurrent submits cannot both pass
// the count with the lock held.
func (s SubmissionPostgreSQL) CreateWithAttemptCheck(ctx context.Context, submission *models.Submission, maxAttempts *int) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if maxAttempts != nil {
			lockKey := fmt.Sprintf("submission:%d:%s", submission.AssignmentID, submission.StudentID)
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtextextended(?, 0))", lockKey).Error; err != nil {
				return err
			}

			var count int64
			if err := tx.Model(&models.Submission{}).
				Where("assignment_id = ? AND student_id = ? AND status IN ?",
					submission.AssignmentID, submission.StudentID, finalStatuses).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*maxAttempts) {
				return repositories.ErrAttemptLimitExceeded
			}
		}

		return tx.Create(submission).Error
	})
}

func (s SubmissionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.SubmissionFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filters.AssignmentID)
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}
	return query
}
