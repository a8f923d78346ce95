package services

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testprep-hub/ielts-grading-service/internal/cache"
	"github.com/testprep-hub/ielts-grading-service/internal/events"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testConfigJSON = []byte(`{
	"version": 1,
	"timing": {"enabled": true, "durationMinutes": 60, "enforce": true, "autoSubmit": true},
	"attempts": {"maxAttempts": 2},
	"sections": [
		{"id": "s1", "questions": [
			{"id": "q1", "type": "multiple_choice", "options": ["A","B","C"], "answer": "B"},
			{"id": "q2", "type": "true_false_not_given", "answer": "true"},
			{"id": "q3", "type": "sentence_completion", "sentences": [
				{"id": "q3-1", "answer": "coral"},
				{"id": "q3-2", "answer": "reef"}
			]},
			{"id": "q4", "type": "matching_headings", "items": [
				{"paragraph": "A", "answerHeadingId": "ii"},
				{"paragraph": "B", "answerHeadingId": "iv"}
			]}
		]}
	]
}`)

var testPayloadJSON = []byte(`{
	"version": 1,
	"answers": [
		{"questionId": "q1", "value": "B"},
		{"questionId": "q2", "value": "TRUE"},
		{"questionId": "q3-1", "value": "coral"},
		{"questionId": "q3-2", "value": "lagoon"},
		{"questionId": "A", "value": "ii"},
		{"questionId": "B", "value": "ii"}
	]
}`)

func newGradingFixture(t *testing.T) (*MockRepository, *events.MockEventPublisher, GradingService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(logger)
	clock := fixedClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}

	service := NewGradingService(repo, cache.NoopCache{}, publisher, logger, clock)
	return repo, publisher, service
}

func TestAutoScoreSubmission_ExistingGradeShortCircuits(t *testing.T) {
	repo, publisher, service := newGradingFixture(t)
	ctx := context.Background()

	existing := &models.Grade{ID: 7, SubmissionID: 42, Band: 3.0, FinalScore: 3.0}
	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(existing, nil)

	grade, err := service.AutoScoreSubmission(ctx, 42)

	require.NoError(t, err)
	assert.Equal(t, existing, grade)
	// No rescoring, no writes, no events.
	repo.submissions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	repo.grades.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestAutoScoreSubmission_GradesOnce(t *testing.T) {
	repo, publisher, service := newGradingFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		ID:           42,
		AssignmentID: 9,
		StudentID:    "student-1",
		Status:       models.SubmissionStatusSubmitted,
		Payload:      datatypes.JSON(testPayloadJSON),
	}
	assignment := &models.Assignment{
		ID:     9,
		Type:   models.AssignmentReading,
		Config: datatypes.JSON(testConfigJSON),
	}

	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(nil, gorm.ErrRecordNotFound)
	repo.submissions.On("GetByID", ctx, uint(42)).Return(submission, nil)
	repo.assignments.On("GetByID", ctx, uint(9)).Return(assignment, nil)
	repo.grades.On("Upsert", ctx, mock.AnythingOfType("*models.Grade")).Return(nil)
	repo.submissions.On("UpdateStatus", ctx, uint(42), models.SubmissionStatusGraded).Return(nil)

	grade, err := service.AutoScoreSubmission(ctx, 42)

	require.NoError(t, err)
	// q1, q2, q3-1, A correct; q3-2 and B wrong: 4 of 6.
	assert.Equal(t, 4, grade.CorrectCount)
	assert.Equal(t, 6, grade.TotalCount)
	assert.Equal(t, 4.0, grade.RawScore)
	assert.Equal(t, 2.0, grade.Band)
	assert.Equal(t, 2.0, grade.FinalScore)
	assert.Equal(t, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC), grade.GradedAt)

	repo.grades.AssertCalled(t, "Upsert", ctx, mock.AnythingOfType("*models.Grade"))
	repo.submissions.AssertCalled(t, "UpdateStatus", ctx, uint(42), models.SubmissionStatusGraded)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionGraded, published[0].Type)
}

func TestAutoScoreSubmission_SecondCallReturnsSameGrade(t *testing.T) {
	repo, _, service := newGradingFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		ID:           42,
		AssignmentID: 9,
		StudentID:    "student-1",
		Payload:      datatypes.JSON(testPayloadJSON),
	}
	assignment := &models.Assignment{
		ID:     9,
		Type:   models.AssignmentReading,
		Config: datatypes.JSON(testConfigJSON),
	}

	var stored *models.Grade
	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(nil, gorm.ErrRecordNotFound).Once()
	repo.submissions.On("GetByID", ctx, uint(42)).Return(submission, nil)
	repo.assignments.On("GetByID", ctx, uint(9)).Return(assignment, nil)
	repo.grades.On("Upsert", ctx, mock.AnythingOfType("*models.Grade")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*models.Grade)
	}).Return(nil)
	repo.submissions.On("UpdateStatus", ctx, uint(42), models.SubmissionStatusGraded).Return(nil)

	first, err := service.AutoScoreSubmission(ctx, 42)
	require.NoError(t, err)

	// Second invocation finds the stored grade and returns it untouched.
	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(stored, nil)
	second, err := service.AutoScoreSubmission(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAutoScoreSubmission_SubmissionNotFound(t *testing.T) {
	repo, _, service := newGradingFixture(t)
	ctx := context.Background()

	repo.grades.On("GetBySubmissionID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)
	repo.submissions.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.AutoScoreSubmission(ctx, 99)

	assert.ErrorIs(t, err, ErrSubmissionNotFound)
	assert.True(t, IsPrecondition(err))
}

func TestAutoScoreSubmission_UnsupportedConfigVersion(t *testing.T) {
	repo, _, service := newGradingFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		ID:           42,
		AssignmentID: 9,
		Payload:      datatypes.JSON(testPayloadJSON),
	}
	assignment := &models.Assignment{
		ID:     9,
		Type:   models.AssignmentReading,
		Config: datatypes.JSON(`{"version": 7, "sections": [{"id": "s1"}]}`),
	}

	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(nil, gorm.ErrRecordNotFound)
	repo.submissions.On("GetByID", ctx, uint(42)).Return(submission, nil)
	repo.assignments.On("GetByID", ctx, uint(9)).Return(assignment, nil)

	_, err := service.AutoScoreSubmission(ctx, 42)

	assert.ErrorIs(t, err, ErrUnsupportedConfigVersion)
	assert.True(t, IsPrecondition(err))
	repo.grades.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestAutoScoreSubmission_WritingRequiresManualGrading(t *testing.T) {
	repo, publisher, service := newGradingFixture(t)
	ctx := context.Background()

	submission := &models.Submission{
		ID:           42,
		AssignmentID: 9,
		StudentID:    "student-1",
		Payload:      datatypes.JSON(`{"version": 1, "answers": []}`),
	}
	assignment := &models.Assignment{
		ID:   9,
		Type: models.AssignmentWriting,
	}

	repo.grades.On("GetBySubmissionID", ctx, uint(42)).Return(nil, gorm.ErrRecordNotFound)
	repo.submissions.On("GetByID", ctx, uint(42)).Return(submission, nil)
	repo.assignments.On("GetByID", ctx, uint(9)).Return(assignment, nil)

	_, err := service.AutoScoreSubmission(ctx, 42)

	assert.ErrorIs(t, err, ErrAssignmentNotObjective)
	repo.grades.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventManualGradingRequired, published[0].Type)
}

func TestGetGrade_NotFound(t *testing.T) {
	repo, _, service := newGradingFixture(t)
	ctx := context.Background()

	repo.grades.On("GetBySubmissionID", ctx, uint(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.GetGrade(ctx, 5)
	assert.ErrorIs(t, err, ErrGradeNotFound)
}
