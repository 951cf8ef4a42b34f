package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"go.uber.org/zap"
)

const insertRegistrationSQL = `
	INSERT INTO registrations (document)
	VALUES ($1::jsonb)
	RETURNING id, created_at`

// InsertRegistration stores one encoded registration document.
// The id and creation timestamp are assigned by the database.
func (c *Client) InsertRegistration(ctx context.Context, document []byte) (*models.StoredRegistration, error) {
	start := time.Now()
	operation := "insertRegistration"

	if c.pool == nil {
		recordMetrics(operation, "error", metrics.MeasureDuration(start))
		return nil, c.notConnected()
	}

	var stored models.StoredRegistration
	err := c.pool.QueryRow(ctx, insertRegistrationSQL, string(document)).Scan(&stored.ID, &stored.CreatedAt)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		recordMetrics(operation, "error", duration)
		logger.LogAPICall(ctx, "postgres", operation, "error", duration, zap.Error(err))
		return nil, fmt.Errorf("failed to insert registration: %w", err)
	}

	recordMetrics(operation, "success", duration)
	logger.LogAPICall(ctx, "postgres", operation, "success", duration,
		zap.String("registration_id", stored.ID.String()))

	return &stored, nil
}
