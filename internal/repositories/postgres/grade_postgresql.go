package postgres

import (
	"context"

	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GradePostgreSQL struct {
	db *gorm.DB
}

func NewGradePostgreSQL(db *gorm.DB) repositories.GradeRepository {
	return &GradePostgreSQL{db: db}
}

func (g GradePostgreSQL) GetBySubmissionID(ctx context.Context, submissionID uint) (*models.Grade, error) {
	var grade models.Grade
	if err := g.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		First(&grade).Error; err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert relies on the unique index on submission_id. A concurrent grader
// that lost the race overwrites the row with the same deterministic values.
func (g GradePostgreSQL) Upsert(ctx context.Context, grade *models.Grade) error {
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "submission_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"raw_score", "correct_count", "total_count", "band", "final_score", "graded_at", "updated_at",
		}),
	}).Create(grade).Error
}

func (g GradePostgreSQL) ListByAssignment(ctx context.Context, assignmentID uint) ([]*models.Grade, error) {
	var grades []*models.Grade
	if err := g.db.WithContext(ctx).
		Joins("JOIN submissions ON submissions.id = grades.submission_id").
		Where("submissions.assignment_id = ?", assignmentID).
		Preload("Submission").
		Order("grades.graded_at ASC").
		Find(&grades).Error; err != nil {
		return nil, err
	}
	return grades, nil
}
