package services

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func TestExportAssignmentGrades(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := NewMockRepository()
	service := NewExportService(repo, logger)
	ctx := context.Background()

	gradedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	grades := []*models.Grade{
		{
			SubmissionID: 42,
			RawScore:     5,
			CorrectCount: 5,
			TotalCount:   6,
			Band:         2.5,
			FinalScore:   2.5,
			GradedAt:     gradedAt,
			Submission:   models.Submission{StudentID: "student-1"},
		},
		{
			SubmissionID: 43,
			RawScore:     6,
			CorrectCount: 6,
			TotalCount:   6,
			Band:         3.0,
			FinalScore:   3.0,
			GradedAt:     gradedAt,
			Submission:   models.Submission{StudentID: "student-2"},
		},
	}

	repo.assignments.On("GetByID", ctx, uint(9)).Return(&models.Assignment{ID: 9}, nil)
	repo.grades.On("ListByAssignment", ctx, uint(9)).Return(grades, nil)

	data, err := service.ExportAssignmentGrades(ctx, 9)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Grades")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + two grades

	assert.Equal(t, "Submission ID", rows[0][0])
	assert.Equal(t, "Band", rows[0][5])
	assert.Equal(t, "42", rows[1][0])
	assert.Equal(t, "student-1", rows[1][1])
	assert.Equal(t, "2.5", rows[1][5])
	assert.Equal(t, "student-2", rows[2][1])
}

func TestExportAssignmentGrades_AssignmentNotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	repo := NewMockRepository()
	service := NewExportService(repo, logger)
	ctx := context.Background()

	repo.assignments.On("GetByID", ctx, uint(9)).Return(nil, gorm.ErrRecordNotFound)

	_, err := service.ExportAssignmentGrades(ctx, 9)
	assert.ErrorIs(t, err, ErrAssignmentNotFound)
}
