package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/testprep-hub/ielts-grading-service/internal/cache"
	"github.com/testprep-hub/ielts-grading-service/internal/events"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/testprep-hub/ielts-grading-service/internal/scoring"
)

const assignmentCacheTTL = 10 * time.Minute

type gradingService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	ops       *ServiceLogger
	clock     Clock
}

func NewGradingService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, clock Clock) GradingService {
	return &gradingService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		ops:       NewServiceLogger(logger, "grading"),
		clock:     clock,
	}
}

// AutoScoreSubmission grades a submission at most once. The existing-grade
// lookup is the sole short-circuit; under a race both callers compute the
// same deterministic result and the keyed upsert makes the second write a
// no-op in effect. The caller (a job trigger with at-least-once delivery)
// may safely invoke this more than once per submission.
func (s *gradingService) AutoScoreSubmission(ctx context.Context, submissionID uint) (*models.Grade, error) {
	start := time.Now()
	grade, err := s.autoScore(ctx, submissionID)
	s.ops.LogOperation(ctx, "auto_score_submission", "system", submissionID, time.Since(start), err)
	return grade, err
}

func (s *gradingService) autoScore(ctx context.Context, submissionID uint) (*models.Grade, error) {
	existing, err := s.repo.Grade().GetBySubmissionID(ctx, submissionID)
	if err == nil {
		s.logger.Info("Submission already graded, returning existing grade",
			"submission_id", submissionID,
			"grade_id", existing.ID)
		return existing, nil
	}
	if !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up grade: %w", err)
	}

	submission, err := s.repo.Submission().GetByID(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}

	assignment, err := s.getAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	if !assignment.IsObjective() {
		s.publishManualGradingRequired(ctx, submission, assignment)
		return nil, ErrAssignmentNotObjective
	}

	cfg, err := scoring.ParseConfig(assignment.Config)
	if err != nil {
		if errors.Is(err, scoring.ErrUnsupportedVersion) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedConfigVersion, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrAssignmentConfigInvalid, err)
	}

	payload, err := scoring.ParsePayload(submission.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadMalformed, err)
	}

	result, err := scoring.Score(scoring.ScoreInput{
		AssignmentType: string(assignment.Type),
		Config:         cfg,
		Payload:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssignmentConfigInvalid, err)
	}

	grade := &models.Grade{
		SubmissionID: submissionID,
		RawScore:     result.RawScore,
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
		Band:         result.Band,
		FinalScore:   result.FinalScore,
		GradedAt:     s.clock.Now(),
	}

	// Grade write and status transition commit together: the submission is
	// never marked graded without a grade row, and vice versa.
	err = s.repo.WithTx(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Grade().Upsert(ctx, grade); err != nil {
			return fmt.Errorf("failed to upsert grade: %w", err)
		}
		if err := txRepo.Submission().UpdateStatus(ctx, submissionID, models.SubmissionStatusGraded); err != nil {
			return fmt.Errorf("failed to mark submission graded: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Submission graded",
		"submission_id", submissionID,
		"raw_score", grade.RawScore,
		"band", grade.Band,
		"total_count", grade.TotalCount)

	s.publishGraded(ctx, submission, grade)

	return grade, nil
}

func (s *gradingService) GetGrade(ctx context.Context, submissionID uint) (*models.Grade, error) {
	grade, err := s.repo.Grade().GetBySubmissionID(ctx, submissionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrGradeNotFound
		}
		return nil, fmt.Errorf("failed to get grade: %w", err)
	}
	return grade, nil
}

// getAssignment reads through the cache; grading re-fetches the same
// assignment for every submission of a cohort, so the row is worth keeping
// warm. Cache failures fall back to the database.
func (s *gradingService) getAssignment(ctx context.Context, assignmentID uint) (*models.Assignment, error) {
	key := fmt.Sprintf("assignment:%d", assignmentID)

	var cached models.Assignment
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	assignment, err := s.repo.Assignment().GetByID(ctx, assignmentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	if err := s.cache.Set(ctx, key, assignment, assignmentCacheTTL); err != nil {
		s.logger.Warn("Failed to cache assignment", "assignment_id", assignmentID, "error", err)
	}

	return assignment, nil
}

// publishManualGradingRequired hands writing/speaking submissions off to the
// human grading pipeline. Auto-scoring never touches them.
func (s *gradingService) publishManualGradingRequired(ctx context.Context, submission *models.Submission, assignment *models.Assignment) {
	event := events.NewGradingEvent(events.EventManualGradingRequired, events.ManualGradingRequiredEvent{
		SubmissionID:   submission.ID,
		AssignmentID:   assignment.ID,
		StudentID:      submission.StudentID,
		AssignmentType: assignment.Type,
	})

	if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish manual grading event",
			"submission_id", submission.ID,
			"error", err)
	}
}

func (s *gradingService) publishGraded(ctx context.Context, submission *models.Submission, grade *models.Grade) {
	event := events.NewGradingEvent(events.EventSubmissionGraded, events.SubmissionGradedEvent{
		SubmissionID: grade.SubmissionID,
		AssignmentID: submission.AssignmentID,
		StudentID:    submission.StudentID,
		RawScore:     grade.RawScore,
		CorrectCount: grade.CorrectCount,
		TotalCount:   grade.TotalCount,
		Band:         grade.Band,
		FinalScore:   grade.FinalScore,
		GradedAt:     grade.GradedAt,
	})

	if err := s.publisher.PublishGradingEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish graded event",
			"submission_id", grade.SubmissionID,
			"error", err)
	}
}
