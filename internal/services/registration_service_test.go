package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/getmentor/registration-api/internal/services"
	apperrors "github.com/getmentor/registration-api/pkg/errors"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var receivedAt = time.UnixMilli(1700000000000)

func TestRegistrationService_Submit_NoPhoto(t *testing.T) {
	repo := new(MockRegistrationRepository)
	files := new(MockFileStore)
	service := services.NewRegistrationService(repo, files)
	ctx := context.Background()

	stored := &models.StoredRegistration{ID: uuid.New(), CreatedAt: receivedAt}
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(reg *models.Registration) bool {
		return reg.FirstName == "Ada" &&
			reg.LastName == "Lovelace" &&
			assert.ObjectsAreEqual([]string{"STEM", "Writing"}, reg.Category) &&
			reg.Confirmation &&
			reg.ProfilePhotoName == nil
	})).Return(stored, nil).Once()

	got, err := service.Submit(ctx, &models.RegistrationSubmission{
		Fields: map[string][]string{
			"firstName":    {"Ada"},
			"lastName":     {"Lovelace"},
			"category":     {"STEM", "Writing"},
			"confirmation": {"on"},
		},
		ReceivedAt: receivedAt,
	})

	require.NoError(t, err)
	assert.Equal(t, stored, got)
	repo.AssertExpectations(t)
	files.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRegistrationService_Submit_WithPhoto(t *testing.T) {
	repo := new(MockRegistrationRepository)
	files := new(MockFileStore)
	service := services.NewRegistrationService(repo, files)

	files.On("Save", mock.Anything, "1700000000000-portrait.jpg").Return(int64(0), nil).Once()
	repo.On("Insert", mock.Anything, mock.MatchedBy(func(reg *models.Registration) bool {
		return reg.ProfilePhotoName != nil && *reg.ProfilePhotoName == "1700000000000-portrait.jpg"
	})).Return(&models.StoredRegistration{ID: uuid.New()}, nil).Once()

	_, err := service.Submit(context.Background(), &models.RegistrationSubmission{
		Fields: map[string][]string{"firstName": {"Ada"}, "lastName": {"Lovelace"}},
		Photo: &models.UploadedFile{
			FileName: "portrait.jpg",
			Content:  strings.NewReader("jpeg bytes"),
		},
		ReceivedAt: receivedAt,
	})

	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", files.saved["1700000000000-portrait.jpg"])
	repo.AssertExpectations(t)
	files.AssertExpectations(t)
}

func TestRegistrationService_Submit_StorageFailure(t *testing.T) {
	repo := new(MockRegistrationRepository)
	files := new(MockFileStore)
	service := services.NewRegistrationService(repo, files)

	files.On("Save", mock.Anything, mock.Anything).Return(int64(0), errors.New("permission denied")).Once()

	_, err := service.Submit(context.Background(), &models.RegistrationSubmission{
		Fields:     map[string][]string{"firstName": {"Ada"}, "lastName": {"Lovelace"}},
		Photo:      &models.UploadedFile{FileName: "a.png", Content: strings.NewReader("x")},
		ReceivedAt: receivedAt,
	})

	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrStorage))
	assert.Contains(t, err.Error(), "permission denied")
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegistrationService_Submit_InsertFailureKeepsPhoto(t *testing.T) {
	dir := t.TempDir()
	repo := new(MockRegistrationRepository)
	service := services.NewRegistrationService(repo, storage.NewDiskStore(dir))

	insertErr := &apperrors.ValidationError{Resource: "registration", Problems: []string{"firstName is required"}}
	repo.On("Insert", mock.Anything, mock.Anything).Return(nil, insertErr).Once()

	_, err := service.Submit(context.Background(), &models.RegistrationSubmission{
		Fields:     map[string][]string{"lastName": {"Lovelace"}},
		Photo:      &models.UploadedFile{FileName: "ada.png", Content: strings.NewReader("png")},
		ReceivedAt: receivedAt,
	})

	require.Error(t, err)
	assert.Equal(t, "registration validation failed: firstName is required", err.Error())

	content, readErr := os.ReadFile(filepath.Join(dir, "1700000000000-ada.png"))
	require.NoError(t, readErr)
	assert.Equal(t, "png", string(content))
}

func TestRegistrationService_Submit_LogsUploadMetadata(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	previous := logger.Log
	logger.Log = zap.New(core)
	defer func() { logger.Log = previous }()

	repo := new(MockRegistrationRepository)
	files := new(MockFileStore)
	service := services.NewRegistrationService(repo, files)

	files.On("Save", mock.Anything, "1700000000000-portrait.jpg").Return(int64(0), nil).Once()
	repo.On("Insert", mock.Anything, mock.Anything).Return(&models.StoredRegistration{ID: uuid.New()}, nil).Once()

	_, err := service.Submit(context.Background(), &models.RegistrationSubmission{
		Fields: map[string][]string{"firstName": {"Ada"}, "lastName": {"Lovelace"}},
		Photo: &models.UploadedFile{
			FileName:    "portrait.jpg",
			ContentType: "image/jpeg",
			Size:        99,
			Content:     strings.NewReader("jpeg bytes"),
		},
		ReceivedAt: receivedAt,
	})
	require.NoError(t, err)

	stored := logs.FilterMessage("Profile photo stored").All()
	require.Len(t, stored, 1)
	fields := stored[0].ContextMap()
	assert.Equal(t, "image/jpeg", fields["content_type"])
	assert.Equal(t, int64(10), fields["size_bytes"])

	mismatch := logs.FilterMessage("Stored photo size differs from upload").All()
	require.Len(t, mismatch, 1)
	assert.Equal(t, int64(99), mismatch[0].ContextMap()["declared_size"])
}
