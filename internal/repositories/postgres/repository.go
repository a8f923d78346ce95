package postgres

import (
	"context"

	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"gorm.io/gorm"
)

// GormRepository is the postgres-backed Repository. WithTx hands callers a
// clone of the bundle bound to one transaction.
type GormRepository struct {
	db          *gorm.DB
	assignments repositories.AssignmentRepository
	submissions repositories.SubmissionRepository
	grades      repositories.GradeRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &GormRepository{
		db:          db,
		assignments: NewAssignmentPostgreSQL(db),
		submissions: NewSubmissionPostgreSQL(db),
		grades:      NewGradePostgreSQL(db),
	}
}

func (r *GormRepository) Assignment() repositories.AssignmentRepository {
	return r.assignments
}

func (r *GormRepository) Submission() repositories.SubmissionRepository {
	return r.submissions
}

func (r *GormRepository) Grade() repositories.GradeRepository {
	return r.grades
}

func (r *GormRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// applyPaginationAndSort applies the shared limit/offset/order filter fields.
func applyPaginationAndSort(query *gorm.DB, limit, offset int, sortBy, sortOrder string) *gorm.DB {
	if sortBy != "" {
		order := sortBy
		if sortOrder == "desc" {
			order += " DESC"
		}
		query = query.Order(order)
	} else {
		query = query.Order("created_at DESC")
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	return query
}
