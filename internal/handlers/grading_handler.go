package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/testprep-hub/ielts-grading-service/internal/services"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type GradingHandler struct {
	BaseHandler
	gradingService services.GradingService
	exportService  services.ExportService
}

func NewGradingHandler(
	gradingService services.GradingService,
	exportService services.ExportService,
	logger utils.Logger,
) *GradingHandler {
	return &GradingHandler{
		BaseHandler:    NewBaseHandler(logger),
		gradingService: gradingService,
		exportService:  exportService,
	}
}

// ScoreSubmission handles POST /submissions/:id/score
func (h *GradingHandler) ScoreSubmission(c *gin.Context) {
	submissionID := parseIDParam(c, "id")
	if submissionID == 0 {
		return
	}

	grade, err := h.gradingService.AutoScoreSubmission(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Message: "Submission scored",
		Data:    grade,
	})
}

// GetGrade handles GET /submissions/:id/grade
func (h *GradingHandler) GetGrade(c *gin.Context) {
	submissionID := parseIDParam(c, "id")
	if submissionID == 0 {
		return
	}

	grade, err := h.gradingService.GetGrade(c.Request.Context(), submissionID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, grade)
}

// ExportGrades handles GET /assignments/:id/grades/export
func (h *GradingHandler) ExportGrades(c *gin.Context) {
	assignmentID := parseIDParam(c, "id")
	if assignmentID == 0 {
		return
	}

	data, err := h.exportService.ExportAssignmentGrades(c.Request.Context(), assignmentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("assignment_%d_grades.xlsx", assignmentID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
