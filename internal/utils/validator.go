package utils

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/testprep-hub/ielts-grading-service/internal/errors"
	"github.com/testprep-hub/ielts-grading-service/internal/models"
)

// Validator wraps go-playground struct validation with the service's custom
// tags and json field naming.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	validate := validator.New()
	RegisterCustomValidators(validate)
	return &Validator{validate: validate}
}

// Validate validates struct tags and converts field errors to the shared
// ValidationErrors type.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		if fieldErrs := apperrors.ToValidationErrors(err); len(fieldErrs) > 0 {
			return fieldErrs
		}
		return err
	}
	return nil
}

// Custom validation functions

func ValidateAssignmentType(fl validator.FieldLevel) bool {
	validTypes := []models.AssignmentType{
		models.AssignmentReading,
		models.AssignmentListening,
		models.AssignmentWriting,
		models.AssignmentSpeaking,
	}

	value := fl.Field().String()
	for _, validType := range validTypes {
		if string(validType) == value {
			return true
		}
	}
	return false
}

func ValidateSubmissionStatus(fl validator.FieldLevel) bool {
	validStatuses := []models.SubmissionStatus{
		models.SubmissionStatusDraft,
		models.SubmissionStatusSubmitted,
		models.SubmissionStatusLate,
		models.SubmissionStatusGraded,
	}

	value := fl.Field().String()
	for _, validStatus := range validStatuses {
		if string(validStatus) == value {
			return true
		}
	}
	return false
}

// RegisterCustomValidators registers all custom validators
func RegisterCustomValidators(validate *validator.Validate) {
	validate.RegisterValidation("assignment_type", ValidateAssignmentType)
	validate.RegisterValidation("submission_status", ValidateSubmissionStatus)

	// Register custom tag name function for better error messages
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
