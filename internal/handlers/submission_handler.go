package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/testprep-hub/ielts-grading-service/internal/services"
	"github.com/testprep-hub/ielts-grading-service/internal/utils"
)

type SubmissionHandler struct {
	BaseHandler
	service services.SubmissionService
}

func NewSubmissionHandler(service services.SubmissionService, logger utils.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// CreateSubmission handles POST /assignments/:id/submissions
func (h *SubmissionHandler) CreateSubmission(c *gin.Context) {
	assignmentID := parseIDParam(c, "id")
	if assignmentID == 0 {
		return
	}

	var req services.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}
	req.AssignmentID = assignmentID

	studentID := GetUserID(c)
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
		return
	}

	submission, err := h.service.Create(c.Request.Context(), &req, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, submission)
}

// GetSubmission handles GET /submissions/:id
func (h *SubmissionHandler) GetSubmission(c *gin.Context) {
	id := parseIDParam(c, "id")
	if id == 0 {
		return
	}

	studentID := GetUserID(c)
	if studentID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Authentication required",
		})
		return
	}

	submission, err := h.service.GetByID(c.Request.Context(), id, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, submission)
}

// ListSubmissions handles GET /submissions
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filters := repositories.SubmissionFilters{
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.SubmissionStatus(statusStr)
		filters.Status = &status
	}
	if assignmentStr := c.Query("assignment_id"); assignmentStr != "" {
		if assignmentID, err := strconv.ParseUint(assignmentStr, 10, 32); err == nil {
			id := uint(assignmentID)
			filters.AssignmentID = &id
		}
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filters.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		filters.Offset = offset
	}

	// Students only see their own submissions.
	studentID := GetUserID(c)
	filters.StudentID = &studentID

	submissions, total, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       total,
	})
}
