package services

import (
	"log/slog"

	"github.com/testprep-hub/ielts-grading-service/internal/cache"
	"github.com/testprep-hub/ielts-grading-service/internal/events"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

type serviceManager struct {
	submission SubmissionService
	grading    GradingService
	export     ExportService
}

func NewServiceManager(
	repo repositories.Repository,
	cacheService cache.CacheService,
	publisher events.EventPublisher,
	logger *slog.Logger,
	validator *utils.Validator,
	clock Clock,
) ServiceManager {
	return &serviceManager{
		submission: NewSubmissionService(repo, publisher, logger, validator, clock),
		grading:    NewGradingService(repo, cacheService, publisher, logger, clock),
		export:     NewExportService(repo, logger),
	}
}

func (m *serviceManager) Submission() SubmissionService { return m.submission }
func (m *serviceManager) Grading() GradingService       { return m.grading }
func (m *serviceManager) Export() ExportService         { return m.export }
