package models

import (
	"io"
	"time"

	"github.com/google/uuid"
)

// Form field names accepted by POST /api/register
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldSchoolCollegeName = "schoolCollegeName"
	FieldDOB               = "dob"
	FieldCityState         = "cityState"
	FieldGender            = "gender"
	FieldCategory          = "category"
	FieldOtherCategory     = "otherCategory"
	FieldParticipationType = "participationType"
	FieldDescription       = "description"
	FieldSocial            = "social"
	FieldRequirements      = "requirements"
	FieldConfirmation      = "confirmation"
	FieldProfileUpload     = "profileUpload"
)

// Registration is the document persisted for every submitted form.
// Optional text fields are nil when the form did not carry them.
type Registration struct {
	FirstName         string     `json:"firstName" validate:"required,notblank"`
	LastName          string     `json:"lastName" validate:"required,notblank"`
	SchoolCollegeName *string    `json:"schoolCollegeName"`
	DateOfBirth       *BirthDate `json:"dob"`
	CityState         *string    `json:"cityState"`
	Gender            *string    `json:"gender"`
	Category          []string   `json:"category" validate:"required"`
	OtherCategory     *string    `json:"otherCategory"`
	ParticipationType *string    `json:"participationType"`
	Description       *string    `json:"description"`
	Social            *string    `json:"social"`
	Requirements      *string    `json:"requirements"`
	Confirmation      bool       `json:"confirmation"`
	ProfilePhotoName  *string    `json:"profilePhotoName"`
}

// StoredRegistration is what the store hands back after an insert
type StoredRegistration struct {
	ID        uuid.UUID
	CreatedAt time.Time
}

// RegistrationSubmission is a decoded request body before coercion
type RegistrationSubmission struct {
	Fields     map[string][]string
	Photo      *UploadedFile
	ReceivedAt time.Time
}

// UploadedFile is the single optional file part of a submission
type UploadedFile struct {
	FileName    string
	ContentType string
	Size        int64
	Content     io.Reader
}

// RegistrationResponse is returned by POST /api/register
type RegistrationResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

const (
	RegistrationSuccessMessage = "Registration submitted successfully!"
	RegistrationFailureMessage = "Submission failed. Please try again."
	InvalidBodyMessage         = "Invalid request body."
)
