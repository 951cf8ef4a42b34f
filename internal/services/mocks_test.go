package services_test

import (
	"context"
	"io"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockRegistrationRepository is a mock implementation of RegistrationRepositoryInterface
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Insert(ctx context.Context, reg *models.Registration) (*models.StoredRegistration, error) {
	args := m.Called(ctx, reg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredRegistration), args.Error(1)
}

// MockFileStore records saved content so tests can inspect it
type MockFileStore struct {
	mock.Mock
	saved map[string]string
}

func (m *MockFileStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	args := m.Called(ctx, name)
	if err := args.Error(1); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	if m.saved == nil {
		m.saved = make(map[string]string)
	}
	m.saved[name] = string(data)
	return int64(len(data)), nil
}

func (m *MockFileStore) Backend() string {
	return "mock"
}
