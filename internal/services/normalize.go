package services

import (
	"github.com/getmentor/registration-api/internal/models"
)

// checkedValue is the only raw checkbox value that means "checked"
const checkedValue = "on"

// NormalizeRegistration coerces raw form fields into a Registration.
// It does no validation: missing names are left empty for the store to reject.
func NormalizeRegistration(fields map[string][]string, photoName *string) *models.Registration {
	reg := &models.Registration{
		SchoolCollegeName: optional(fields, models.FieldSchoolCollegeName),
		CityState:         optional(fields, models.FieldCityState),
		Gender:            optional(fields, models.FieldGender),
		Category:          normalizeCategory(fields),
		OtherCategory:     optional(fields, models.FieldOtherCategory),
		ParticipationType: optional(fields, models.FieldParticipationType),
		Description:       optional(fields, models.FieldDescription),
		Social:            optional(fields, models.FieldSocial),
		Requirements:      optional(fields, models.FieldRequirements),
		ProfilePhotoName:  photoName,
	}

	if v := optional(fields, models.FieldFirstName); v != nil {
		reg.FirstName = *v
	}
	if v := optional(fields, models.FieldLastName); v != nil {
		reg.LastName = *v
	}
	if v := optional(fields, models.FieldDOB); v != nil {
		reg.DateOfBirth = models.ParseBirthDate(*v)
	}
	if v := optional(fields, models.FieldConfirmation); v != nil {
		reg.Confirmation = *v == checkedValue
	}

	return reg
}

// optional returns the first submitted value, or nil when the field is absent
func optional(fields map[string][]string, name string) *string {
	values, ok := fields[name]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// normalizeCategory always returns a non-nil slice in submission order.
// Bracketed names (category[]) are appended after plain ones. A lone empty
// value counts as absent.
func normalizeCategory(fields map[string][]string) []string {
	plain := fields[models.FieldCategory]
	bracketed := fields[models.FieldCategory+"[]"]

	out := make([]string, 0, len(plain)+len(bracketed))
	out = append(out, plain...)
	out = append(out, bracketed...)
	if len(out) == 1 && out[0] == "" {
		return []string{}
	}
	return out
}
