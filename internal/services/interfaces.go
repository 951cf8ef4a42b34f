package services

import (
	"context"
	"io"

	"github.com/getmentor/registration-api/internal/models"
)

// RegistrationServiceInterface defines the interface for registration service operations
type RegistrationServiceInterface interface {
	Submit(ctx context.Context, submission *models.RegistrationSubmission) (*models.StoredRegistration, error)
}

// RegistrationRepositoryInterface is the store adapter used by the service
type RegistrationRepositoryInterface interface {
	Insert(ctx context.Context, reg *models.Registration) (*models.StoredRegistration, error)
}

// FileStore persists uploaded bytes under a generated name
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (int64, error)
	Backend() string
}
