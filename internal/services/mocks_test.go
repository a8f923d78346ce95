package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
)

// MockAssignmentRepository is a mock implementation of AssignmentRepository
type MockAssignmentRepository struct {
	mock.Mock
}

func (m *MockAssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) GetByID(ctx context.Context, id uint) (*models.Assignment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Assignment), args.Error(1)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	args := m.Called(ctx, assignment)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssignmentRepository) List(ctx context.Context, filters repositories.AssignmentFilters) ([]*models.Assignment, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Assignment), args.Get(1).(int64), args.Error(2)
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	mock.Mock
}

func (m *MockSubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) GetByID(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) GetByIDWithDetails(ctx context.Context, id uint) (*models.Submission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	args := m.Called(ctx, submission)
	return args.Error(0)
}

func (m *MockSubmissionRepository) UpdateStatus(ctx context.Context, id uint, status models.SubmissionStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockSubmissionRepository) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	args := m.Called(ctx, filters)
	return args.Get(0).([]*models.Submission), args.Get(1).(int64), args.Error(2)
}

func (m *MockSubmissionRepository) GetByAssignmentAndStudent(ctx context.Context, assignmentID uint, studentID string) ([]*models.Submission, error) {
	args := m.Called(ctx, assignmentID, studentID)
	return args.Get(0).([]*models.Submission), args.Error(1)
}

func (m *MockSubmissionRepository) CountFinal(ctx context.Context, assignmentID uint, studentID string) (int64, error) {
	args := m.Called(ctx, assignmentID, studentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubmissionRepository) CreateWithAttemptCheck(ctx context.Context, submission *models.Submission, maxAttempts *int) error {
	args := m.Called(ctx, submission, maxAttempts)
	return args.Error(0)
}

// MockGradeRepository is a mock implementation of GradeRepository
type MockGradeRepository struct {
	mock.Mock
}

func (m *MockGradeRepository) GetBySubmissionID(ctx context.Context, submissionID uint) (*models.Grade, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Grade), args.Error(1)
}

func (m *MockGradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	args := m.Called(ctx, grade)
	return args.Error(0)
}

func (m *MockGradeRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]*models.Grade, error) {
	args := m.Called(ctx, assignmentID)
	return args.Get(0).([]*models.Grade), args.Error(1)
}

// MockRepository bundles the repository mocks. WithTx runs the callback
// against the same bundle, which is what the services expect of a
// transaction-scoped repository.
type MockRepository struct {
	assignments *MockAssignmentRepository
	submissions *MockSubmissionRepository
	grades      *MockGradeRepository
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		assignments: &MockAssignmentRepository{},
		submissions: &MockSubmissionRepository{},
		grades:      &MockGradeRepository{},
	}
}

func (m *MockRepository) Assignment() repositories.AssignmentRepository { return m.assignments }
func (m *MockRepository) Submission() repositories.SubmissionRepository { return m.submissions }
func (m *MockRepository) Grade() repositories.GradeRepository           { return m.grades }

func (m *MockRepository) WithTx(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

// fixedClock pins "now" for deterministic timing tests.
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }
