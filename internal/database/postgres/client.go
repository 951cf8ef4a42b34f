package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/getmentor/registration-api/config"
	"github.com/getmentor/registration-api/pkg/db"
	apperrors "github.com/getmentor/registration-api/pkg/errors"
	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"github.com/getmentor/registration-api/pkg/retry"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Client wraps a pgx connection pool with observability.
// A Client without a pool is disconnected and fails every operation.
type Client struct {
	pool         *pgxpool.Pool
	databaseURL  string
	cause        error
	connectRetry retry.Config
}

// NewClient builds a lazy pool for the configured connection target.
// No network I/O happens here; call Connect to verify and provision.
func NewClient(ctx context.Context, cfg config.DatabaseConfig) (*Client, error) {
	pool, err := db.NewPool(ctx, db.PoolConfig{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		MinConns: cfg.MinConns,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		pool:         pool,
		databaseURL:  cfg.URL,
		connectRetry: connectRetryConfig(),
	}, nil
}

// NewDisconnectedClient returns a client whose operations all fail with
// ErrNotConnected, remembering why the pool could not be built.
func NewDisconnectedClient(cause error) *Client {
	return &Client{cause: cause, connectRetry: connectRetryConfig()}
}

func connectRetryConfig() retry.Config {
	cfg := retry.DatabaseConnectConfig()
	cfg.Retryable = func(err error) bool {
		return !apperrors.Is(err, apperrors.ErrNotConnected)
	}
	return cfg
}

// Connect pings the server, backing off between attempts, and then
// provisions the registrations collection. Meant to run in the background
// at startup; failures only get logged.
func (c *Client) Connect(ctx context.Context) error {
	start := time.Now()

	if err := retry.Do(ctx, c.connectRetry, "database_connect", c.Ping); err != nil {
		logger.Error("Database connection failed",
			zap.Error(err),
			zap.Float64("duration", metrics.MeasureDuration(start)))
		return err
	}

	if err := db.RunMigrations(c.databaseURL); err != nil {
		logger.Error("Failed to provision registrations collection", zap.Error(err))
		return err
	}

	stat := c.pool.Stat()
	logger.Info("Database connected successfully",
		zap.String("database", maskDatabaseURL(c.databaseURL)),
		zap.Int32("max_conns", stat.MaxConns()),
		zap.Float64("duration", metrics.MeasureDuration(start)))
	return nil
}

// Close closes the connection pool
func (c *Client) Close() {
	if c.pool != nil {
		c.pool.Close()
		logger.Info("PostgreSQL connection pool closed")
	}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	if c.pool == nil {
		return c.notConnected()
	}
	return c.pool.Ping(ctx)
}

func (c *Client) notConnected() error {
	if c.cause != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrNotConnected, c.cause)
	}
	return apperrors.ErrNotConnected
}

// recordMetrics records database operation metrics
func recordMetrics(operation, status string, duration float64) {
	metrics.DBOperationDuration.WithLabelValues("postgres_"+operation, status).Observe(duration)
	metrics.DBOperationTotal.WithLabelValues("postgres_"+operation, status).Inc()
}

// maskDatabaseURL hides credentials when logging the connection target
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:20] + "***"
	}
	return "***"
}
