package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/testprep-hub/ielts-grading-service/internal/repositories"
	"github.com/xuri/excelize/v2"
)

type exportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewExportService(repo repositories.Repository, logger *slog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger,
	}
}

// ExportAssignmentGrades renders every grade for an assignment into an xlsx
// sheet, one row per graded submission.
func (s *exportService) ExportAssignmentGrades(ctx context.Context, assignmentID uint) ([]byte, error) {
	if _, err := s.repo.Assignment().GetByID(ctx, assignmentID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	grades, err := s.repo.Grade().ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}

	f := excelize.NewFile()
	sheetName := "Grades"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"Submission ID", "Student ID", "Raw Score", "Correct", "Total", "Band", "Final Score", "Graded At",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, grade := range grades {
		row := []interface{}{
			grade.SubmissionID,
			grade.Submission.StudentID,
			grade.RawScore,
			grade.CorrectCount,
			grade.TotalCount,
			grade.Band,
			grade.FinalScore,
			grade.GradedAt.Format("2006-01-02 15:04:05"),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Exported assignment grades",
		"assignment_id", assignmentID,
		"rows", len(grades))

	return buf.Bytes(), nil
}
