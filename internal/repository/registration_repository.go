package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/getmentor/registration-api/internal/models"
	apperrors "github.com/getmentor/registration-api/pkg/errors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// RegistrationRepository is the store adapter for registrations.
// Every insert validates the record shape first; nothing partial is written.
type RegistrationRepository struct {
	source   RegistrationDataSource
	validate *validator.Validate
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(source RegistrationDataSource) *RegistrationRepository {
	return &RegistrationRepository{
		source:   source,
		validate: newRegistrationValidator(),
	}
}

func newRegistrationValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their document names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterStructValidation(validateBirthDate, models.Registration{})

	return v
}

func validateBirthDate(sl validator.StructLevel) {
	reg, ok := sl.Current().Interface().(models.Registration)
	if !ok || reg.DateOfBirth == nil || !reg.DateOfBirth.Invalid {
		return
	}
	sl.ReportError(reg.DateOfBirth, "dob", "DateOfBirth", "date", reg.DateOfBirth.Raw)
}

// Insert validates reg and persists it as a single document
func (r *RegistrationRepository) Insert(ctx context.Context, reg *models.Registration) (*models.StoredRegistration, error) {
	if reg == nil {
		return nil, apperrors.InvalidInputError("registration", "record is missing")
	}

	if err := r.Validate(reg); err != nil {
		return nil, err
	}

	document, err := json.Marshal(reg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode registration: %w", err)
	}

	return r.source.InsertRegistration(ctx, document)
}

// Validate checks reg against the registration shape
func (r *RegistrationRepository) Validate(reg *models.Registration) error {
	err := r.validate.Struct(reg)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !apperrors.As(err, &fieldErrors) {
		return fmt.Errorf("failed to validate registration: %w", err)
	}

	problems := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		problems = append(problems, fieldErrorMessage(fe))
	}
	return &apperrors.ValidationError{Resource: "registration", Problems: problems}
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "notblank":
		return fe.Field() + " must not be blank"
	case "date":
		return fmt.Sprintf("%s: cast to date failed for value %q", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}
