package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/testprep-hub/ielts-grading-service/internal/services"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

type HandlerManager struct {
	submissionHandler *SubmissionHandler
	gradingHandler    *GradingHandler
	logger            utils.Logger
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		submissionHandler: NewSubmissionHandler(serviceManager.Submission(), logger),
		gradingHandler:    NewGradingHandler(serviceManager.Grading(), serviceManager.Export(), logger),
		logger:            logger,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(AuthMiddleware(hm.logger))
	{
		// Assignment routes
		assignments := v1.Group("/assignments")
		{
			assignments.POST("/:id/submissions", hm.submissionHandler.CreateSubmission)
			assignments.GET("/:id/grades/export", hm.gradingHandler.ExportGrades)
		}

		// Submission routes
		submissions := v1.Group("/submissions")
		{
			submissions.GET("", hm.submissionHandler.ListSubmissions)
			submissions.GET("/:id", hm.submissionHandler.GetSubmission)
			submissions.POST("/:id/score", hm.gradingHandler.ScoreSubmission)
			submissions.GET("/:id/grade", hm.gradingHandler.GetGrade)
		}
	}
}
