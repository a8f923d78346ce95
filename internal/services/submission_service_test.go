package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testprep-hub/ielts-grading-service/internal/events"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newSubmissionFixture(t *testing.T) (*MockRepository, *events.MockEventPublisher, SubmissionService) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := NewMockRepository()
	publisher := events.NewMockEventPublisher(logger)

	service := NewSubmissionService(repo, publisher, logger, utils.NewValidator(), fixedClock{now: testNow})
	return repo, publisher, service
}

func timedAssignment(autoSubmit bool) *models.Assignment {
	config := fmt.Sprintf(`{
		"version": 1,
		"timing": {"enabled": true, "durationMinutes": 60, "enforce": true, "autoSubmit": %t},
		"attempts": {"maxAttempts": 1},
		"sections": [{"id": "s1", "questions": [{"id": "q1", "type": "multiple_choice", "answer": "A"}]}]
	}`, autoSubmit)

	return &models.Assignment{
		ID:     9,
		Type:   models.AssignmentReading,
		Config: datatypes.JSON(config),
	}
}

func payloadStartedAt(startedAt time.Time) datatypes.JSON {
	return datatypes.JSON(fmt.Sprintf(
		`{"version": 1, "startedAt": %q, "answers": [{"questionId": "q1", "value": "A"}]}`,
		startedAt.Format(time.RFC3339)))
}

func TestCreateSubmission_AttemptLimitExceeded(t *testing.T) {
	repo, publisher, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)
	repo.submissions.On("CreateWithAttemptCheck", ctx, mock.AnythingOfType("*models.Submission"), mock.AnythingOfType("*int")).
		Return(repositories.ErrAttemptLimitExceeded)

	_, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Status:       models.SubmissionStatusSubmitted,
		Payload:      payloadStartedAt(testNow.Add(-10 * time.Minute)),
	}, "student-1")

	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)
	assert.True(t, IsConflict(err))
	// The rejected submission never produces an event.
	assert.Empty(t, publisher.GetPublishedEvents())
}

func TestCreateSubmission_AutoSubmitOnTimeout(t *testing.T) {
	repo, publisher, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)

	var created *models.Submission
	repo.submissions.On("CreateWithAttemptCheck", ctx, mock.AnythingOfType("*models.Submission"), mock.AnythingOfType("*int")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Submission)
			created.ID = 100
		}).Return(nil)

	// Started two hours ago with a 60 minute limit; the caller asks for a
	// draft but the deadline has passed.
	submission, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Status:       models.SubmissionStatusDraft,
		Payload:      payloadStartedAt(testNow.Add(-2 * time.Hour)),
	}, "student-1")

	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusSubmitted, submission.Status)
	require.NotNil(t, submission.SubmittedAt)
	assert.Equal(t, testNow, *submission.SubmittedAt)

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventSubmissionAutoSubmitted, published[0].Type)
}

func TestCreateSubmission_LateWithoutAutoSubmit(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(false), nil)
	repo.submissions.On("CreateWithAttemptCheck", ctx, mock.AnythingOfType("*models.Submission"), mock.AnythingOfType("*int")).
		Return(nil)

	submission, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Status:       models.SubmissionStatusSubmitted,
		Payload:      payloadStartedAt(testNow.Add(-2 * time.Hour)),
	}, "student-1")

	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusLate, submission.Status)
	require.NotNil(t, submission.SubmittedAt)
}

func TestCreateSubmission_WithinWindowKeepsRequestedStatus(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)
	repo.submissions.On("CreateWithAttemptCheck", ctx, mock.AnythingOfType("*models.Submission"), mock.AnythingOfType("*int")).
		Return(nil)

	submission, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Status:       models.SubmissionStatusDraft,
		Payload:      payloadStartedAt(testNow.Add(-10 * time.Minute)),
	}, "student-1")

	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusDraft, submission.Status)
	assert.Nil(t, submission.SubmittedAt)
}

func TestCreateSubmission_DefaultsToDraft(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)
	repo.submissions.On("CreateWithAttemptCheck", ctx, mock.AnythingOfType("*models.Submission"), mock.AnythingOfType("*int")).
		Return(nil)

	submission, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Payload:      payloadStartedAt(testNow.Add(-10 * time.Minute)),
	}, "student-1")

	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusDraft, submission.Status)
}

func TestCreateSubmission_AssignmentNotFound(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Payload:      payloadStartedAt(testNow),
	}, "student-1")

	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}

func TestCreateSubmission_RejectsGradedStatus(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)

	_, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Status:       models.SubmissionStatusGraded,
		Payload:      payloadStartedAt(testNow),
	}, "student-1")

	assert.ErrorIs(t, err, ErrSubmissionInvalidState)
}

func TestCreateSubmission_MalformedPayload(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(timedAssignment(true), nil)

	_, err := service.Create(ctx, &CreateSubmissionRequest{
		AssignmentID: 9,
		Payload:      datatypes.JSON(`{"answers": `),
	}, "student-1")

	assert.ErrorIs(t, err, ErrPayloadMalformed)
	assert.True(t, IsValidation(err))
}

func TestGetByID_OwnershipEnforced(t *testing.T) {
	repo, _, service := newSubmissionFixture(t)
	ctx := context.Background()

	submission := &models.Submission{ID: 5, StudentID: "student-1"}
	repo.submissions.On("GetByIDWithDetails", ctx, uint(5)).Return(submission, nil)

	_, err := service.GetByID(ctx, 5, "student-2")
	assert.ErrorIs(t, err, ErrForbidden)

	got, err := service.GetByID(ctx, 5, "student-1")
	require.NoError(t, err)
	assert.Equal(t, submission, got)
}
