package services

import (
	"context"

	"github.com/getmentor/registration-api/internal/models"
	apperrors "github.com/getmentor/registration-api/pkg/errors"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"github.com/getmentor/registration-api/pkg/storage"
	"github.com/getmentor/registration-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// RegistrationService stores the optional photo and persists the coerced record
type RegistrationService struct {
	repo  RegistrationRepositoryInterface
	files FileStore
}

// NewRegistrationService creates a new registration service instance
func NewRegistrationService(repo RegistrationRepositoryInterface, files FileStore) *RegistrationService {
	return &RegistrationService{
		repo:  repo,
		files: files,
	}
}

// Submit handles one registration:
//  1. write the photo (if any) under <receivedAt ms>-<original name>
//  2. coerce the raw fields
//  3. insert the record
//
// A photo written in step 1 stays in place when step 3 fails.
func (s *RegistrationService) Submit(ctx context.Context, sub *models.RegistrationSubmission) (*models.StoredRegistration, error) {
	ctx, span := tracing.StartSpan(ctx, "RegistrationService.Submit",
		attribute.Bool("registration.has_photo", sub.Photo != nil))
	defer span.End()

	var photoName *string
	if sub.Photo != nil {
		name := storage.StorageName(sub.ReceivedAt, sub.Photo.FileName)
		size, err := s.files.Save(ctx, name, sub.Photo.Content)
		if err != nil {
			err = apperrors.StorageError(name, err)
			tracing.RecordError(span, err)
			metrics.RegistrationSubmissions.WithLabelValues("storage_error").Inc()
			logger.LogError(ctx, err, "Failed to store profile photo",
				zap.String("backend", s.files.Backend()),
				zap.String("original_name", sub.Photo.FileName),
				zap.String("content_type", sub.Photo.ContentType),
				zap.Int64("declared_size", sub.Photo.Size))
			return nil, err
		}
		photoName = &name
		if sub.Photo.Size > 0 && size != sub.Photo.Size {
			logger.Warn("Stored photo size differs from upload",
				zap.String("name", name),
				zap.Int64("declared_size", sub.Photo.Size),
				zap.Int64("size_bytes", size))
		}
		logger.Info("Profile photo stored",
			zap.String("backend", s.files.Backend()),
			zap.String("name", name),
			zap.String("content_type", sub.Photo.ContentType),
			zap.Int64("size_bytes", size))
	}

	reg := NormalizeRegistration(sub.Fields, photoName)

	stored, err := s.repo.Insert(ctx, reg)
	if err != nil {
		tracing.RecordError(span, err)
		status := "db_error"
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			status = "invalid"
		}
		metrics.RegistrationSubmissions.WithLabelValues(status).Inc()
		logger.LogError(ctx, err, "Error saving registration",
			zap.Strings("category", reg.Category),
			zap.Bool("has_photo", photoName != nil))
		return nil, err
	}

	span.SetAttributes(attribute.String("registration.id", stored.ID.String()))
	metrics.RegistrationSubmissions.WithLabelValues("success").Inc()
	logger.Info("New registration saved to database",
		zap.String("registration_id", stored.ID.String()),
		zap.Int("category_count", len(reg.Category)),
		zap.Bool("confirmation", reg.Confirmation))

	return stored, nil
}
