package services

import (
	"errors"
	"fmt"

	apperrors "github.com/testprep-hub/ielts-grading-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound         = errors.New("resource not found")
	ErrUnauthorized     = errors.New("unauthorized access")
	ErrForbidden        = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed = errors.New("validation failed")
	ErrInternalError    = errors.New("internal server error")
	ErrBadRequest       = errors.New("bad request")
	ErrConflict         = errors.New("resource conflict")

	// Assignment specific errors
	ErrAssignmentNotFound       = errors.New("assignment not found")
	ErrAssignmentConfigInvalid  = errors.New("assignment config cannot be interpreted")
	ErrUnsupportedConfigVersion = errors.New("unsupported assignment config version")
	ErrAssignmentNotObjective   = errors.New("assignment type requires manual grading")

	// Submission specific errors
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrSubmissionInvalidState = errors.New("invalid submission status transition")
	ErrAttemptLimitExceeded   = errors.New("maximum attempts exceeded")
	ErrPayloadMalformed       = errors.New("submission payload is malformed")

	// Grading specific errors
	ErrGradeNotFound = errors.New("grade not found")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type BusinessRuleError struct {
	Rule    string                 `json:"rule"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (bre *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", bre.Rule, bre.Message)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewBusinessRuleError(rule, message string, context map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: context,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAssignmentNotFound) ||
		errors.Is(err, ErrSubmissionNotFound) ||
		errors.Is(err, ErrGradeNotFound)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) || errors.Is(err, ErrPayloadMalformed) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsBusinessRule checks if error represents a business rule violation
func IsBusinessRule(err error) bool {
	var bre *BusinessRuleError
	return errors.As(err, &bre)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrAttemptLimitExceeded) ||
		errors.Is(err, ErrSubmissionInvalidState)
}

// IsPrecondition checks if error is a fatal precondition failure that the
// caller must not retry without intervention (missing rows, config versions
// this build of the scorer does not understand).
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrUnsupportedConfigVersion) ||
		errors.Is(err, ErrAssignmentConfigInvalid) ||
		IsNotFound(err)
}
