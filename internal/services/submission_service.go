package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/testprep-hub/ielts-grading-service/internal/events"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/testprep-hub/ielts-grading-service/internal/scoring"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

type submissionService struct {
	repo      repositories.Repository
	publisher events.EventPublisher
	logger    *slog.Logger
	ops       *ServiceLogger
	validator *utils.Validator
	clock     Clock
}

func NewSubmissionService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *utils.Validator, clock Clock) SubmissionService {
	return &submissionService{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(logger, "submission"),
		validator: validator,
		clock:     clock,
	}
}

// Create runs the submission lifecycle rules: attempt limit, timing window,
// auto-submit on timeout. The attempt count and the insert commit as one
// transactional unit in the repository, so two racing submits cannot both
// slip under the limit.
func (s *submissionService) Create(ctx context.Context, req *CreateSubmissionRequest, studentID string) (*models.Submission, error) {
	start := time.Now()
	submission, err := s.create(ctx, req, studentID)
	s.ops.LogOperation(ctx, "create_submission", studentID, req.AssignmentID, time.Since(start), err)
	return submission, err
}

func (s *submissionService) create(ctx context.Context, req *CreateSubmissionRequest, studentID string) (*models.Submission, error) {
	s.logger.Info("Creating submission",
		"assignment_id", req.AssignmentID,
		"student_id", studentID,
		"requested_status", req.Status)

	if err := s.validator.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, req.AssignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	cfg, err := scoring.ParseConfig(assignment.Config)
	if err != nil {
		if errors.Is(err, scoring.ErrUnsupportedVersion) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfigVersion, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssignmentConfigInvalid, err)
	}

	payload, err := scoring.ParsePayload(req.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	status := req.Status
	if status == "" {
		status = models.SubmissionStatusDraft
	}
	if status == models.SubmissionStatusGraded {
		return nil, ErrSubmissionInvalidState
	}

	now := s.clock.Now()
	var submittedAt *time.Time
	forced := false

	if cfg.Timing.Enabled && cfg.Timing.Enforce && payload.StartedAt != nil {
		startedAt, parseErr := time.Parse(time.RFC3339, *payload.StartedAt)
		if parseErr != nil {
			return nil, fmt.Errorf("%w: invalid startedAt: %v", ErrPayloadMalformed, parseErr)
		}

		deadline := startedAt.Add(time.Duration(cfg.Timing.DurationMinutes) * time.Minute)
		if now.After(deadline) {
			if cfg.Timing.AutoSubmit {
				// Timed out: force-submit regardless of the status the
				// caller asked for.
				status = models.SubmissionStatusSubmitted
				submittedAt = timePtr(now)
				forced = true
			} else {
				status = models.SubmissionStatusLate
			}
		}
	}

	if status.IsFinal() && submittedAt == nil {
		submittedAt = timePtr(now)
	}

	submission := &models.Submission{
		AssignmentID: req.AssignmentID,
		StudentID:    studentID,
		Status:       status,
		Payload:      req.Payload,
		SubmittedAt:  submittedAt,
	}

	if err := s.repo.Submission().CreateWithAttemptCheck(ctx, submission, cfg.Attempts.MaxAttempts); err != nil {
		if errors.Is(err, repositories.ErrAttemptLimitExceeded) {
			s.logger.Info("Submission rejected, attempt limit reached",
				"assignment_id", req.AssignmentID,
				"student_id", studentID)
			return nil, ErrAttemptLimitExceeded
		}
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.logger.Info("Submission created",
		"submission_id", submission.ID,
		"status", submission.Status,
		"forced_submit", forced)

	s.publishCreated(ctx, submission, forced)

	return submission, nil
}

func (s *submissionService) GetByID(ctx context.Context, id uint, studentID string) (*models.Submission, error) {
	submission, err := s.repo.Submission().GetByIDWithDetails(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	if submission.StudentID != studentID {
		return nil, ErrForbidden
	}

	return submission, nil
}

func (s *submissionService) List(ctx context.Context, filters repositories.SubmissionFilters) ([]*models.Submission, int64, error) {
	submissions, total, err := s.repo.Submission().List(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, total, nil
}

// publishCreated is best-effort: a lost event never fails the submission.
func (s *submissionService) publishCreated(ctx context.Context, submission *models.Submission, forced bool) {
	eventType := events.EventSubmissionCreated
	if forced {
		eventType = events.EventSubmissionAutoSubmitted
	} else if submission.Status == models.SubmissionStatusLate {
		eventType = events.EventSubmissionLate
	}

	event := events.NewGradingEvent(eventType, events.SubmissionCreatedEvent{
		SubmissionID: submission.ID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		Status:       submission.Status,
		SubmittedAt:  submission.SubmittedAt,
	})

	if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish submission event",
			"submission_id", submission.ID,
			"event_type", eventType,
			"error", err)
	}
}
