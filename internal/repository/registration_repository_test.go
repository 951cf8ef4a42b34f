package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/getmentor/registration-api/internal/models"
	apperrors "github.com/getmentor/registration-api/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRegistrationDataSource struct {
	mock.Mock
}

func (m *MockRegistrationDataSource) InsertRegistration(ctx context.Context, document []byte) (*models.StoredRegistration, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredRegistration), args.Error(1)
}

func strPtr(s string) *string { return &s }

func validRegistration() *models.Registration {
	return &models.Registration{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Category:     []string{"STEM", "Writing"},
		Confirmation: true,
	}
}

func TestRegistrationRepository_Insert(t *testing.T) {
	source := new(MockRegistrationDataSource)
	repo := NewRegistrationRepository(source)
	ctx := context.Background()

	stored := &models.StoredRegistration{ID: uuid.New(), CreatedAt: time.Now()}
	var captured []byte
	source.On("InsertRegistration", ctx, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).([]byte) }).
		Return(stored, nil).Once()

	reg := validRegistration()
	reg.DateOfBirth = models.ParseBirthDate("1815-12-10")
	reg.Gender = strPtr("female")

	got, err := repo.Insert(ctx, reg)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(captured, &doc))
	assert.Equal(t, "Ada", doc["firstName"])
	assert.Equal(t, []any{"STEM", "Writing"}, doc["category"])
	assert.Equal(t, true, doc["confirmation"])
	assert.Equal(t, "1815-12-10T00:00:00Z", doc["dob"])
	assert.Equal(t, "female", doc["gender"])
	assert.Nil(t, doc["profilePhotoName"])

	source.AssertExpectations(t)
}

func TestRegistrationRepository_InsertRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(r *models.Registration)
		expected string
	}{
		{
			name:     "missing first name",
			mutate:   func(r *models.Registration) { r.FirstName = "" },
			expected: "registration validation failed: firstName is required",
		},
		{
			name:     "blank last name",
			mutate:   func(r *models.Registration) { r.LastName = "   " },
			expected: "registration validation failed: lastName must not be blank",
		},
		{
			name:     "both names missing",
			mutate:   func(r *models.Registration) { r.FirstName, r.LastName = "", "" },
			expected: "registration validation failed: firstName is required, lastName is required",
		},
		{
			name:     "nil category",
			mutate:   func(r *models.Registration) { r.Category = nil },
			expected: "registration validation failed: category is required",
		},
		{
			name:     "invalid date",
			mutate:   func(r *models.Registration) { r.DateOfBirth = models.ParseBirthDate("not-a-date") },
			expected: `registration validation failed: dob: cast to date failed for value "not-a-date"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := new(MockRegistrationDataSource)
			repo := NewRegistrationRepository(source)

			reg := validRegistration()
			tt.mutate(reg)

			got, err := repo.Insert(context.Background(), reg)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.expected, err.Error())
			assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))

			source.AssertNotCalled(t, "InsertRegistration", mock.Anything, mock.Anything)
		})
	}
}

func TestRegistrationRepository_InsertEmptyCategoryIsValid(t *testing.T) {
	source := new(MockRegistrationDataSource)
	repo := NewRegistrationRepository(source)
	ctx := context.Background()

	source.On("InsertRegistration", ctx, mock.Anything).Return(&models.StoredRegistration{ID: uuid.New()}, nil).Once()

	reg := validRegistration()
	reg.Category = []string{}

	_, err := repo.Insert(ctx, reg)
	assert.NoError(t, err)
	source.AssertExpectations(t)
}

func TestRegistrationRepository_InsertPropagatesStoreError(t *testing.T) {
	source := new(MockRegistrationDataSource)
	repo := NewRegistrationRepository(source)
	ctx := context.Background()

	source.On("InsertRegistration", ctx, mock.Anything).Return(nil, apperrors.ErrNotConnected).Once()

	_, err := repo.Insert(ctx, validRegistration())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotConnected))
}

func TestRegistrationRepository_InsertNil(t *testing.T) {
	repo := NewRegistrationRepository(new(MockRegistrationDataSource))

	_, err := repo.Insert(context.Background(), nil)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
