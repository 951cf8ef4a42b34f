package repository

import (
	"context"

	"github.com/getmentor/registration-api/internal/models"
)

// RegistrationDataSource is the document store behind the registration repository
type RegistrationDataSource interface {
	// InsertRegistration persists one encoded document and returns its store-assigned identity
	InsertRegistration(ctx context.Context, document []byte) (*models.StoredRegistration, error)
}
