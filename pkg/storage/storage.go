package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/getmentor/registration-api/pkg/logger"
	"github.com/getmentor/registration-api/pkg/metrics"
	"go.uber.org/zap"
)

// StorageName builds the name an upload is stored under:
// <milliseconds since epoch at receipt>-<original file name>.
func StorageName(receivedAt time.Time, originalName string) string {
	return strconv.FormatInt(receivedAt.UnixMilli(), 10) + "-" + originalName
}

// DiskStore writes uploads into a directory that must already exist
type DiskStore struct {
	dir string
}

// NewDiskStore creates a store rooted at dir
func NewDiskStore(dir string) *DiskStore {
	return &DiskStore{dir: dir}
}

// Backend names the store for metrics and logs
func (s *DiskStore) Backend() string {
	return "disk"
}

// Dir returns the upload directory
func (s *DiskStore) Dir() string {
	return s.dir
}

// CheckDir reports whether the upload directory exists and is a directory
func (s *DiskStore) CheckDir() error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("upload directory %s: %w", s.dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload directory %s is not a directory", s.dir)
	}
	return nil
}

// Save copies r verbatim to <dir>/<name>, replacing any file of the same name.
// The directory is never created here.
func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (int64, error) {
	start := time.Now()
	path := filepath.Join(s.dir, filepath.Base(name))

	written, err := writeFile(path, r)
	duration := metrics.MeasureDuration(start)
	if err != nil {
		observe(s.Backend(), "error", duration, 0)
		logger.LogAPICall(ctx, "disk_storage", "save", "error", duration,
			zap.Error(err),
			zap.String("path", path),
		)
		return 0, err
	}

	observe(s.Backend(), "success", duration, written)
	logger.LogAPICall(ctx, "disk_storage", "save", "success", duration,
		zap.String("path", path),
		zap.Int64("size_bytes", written),
	)
	return written, nil
}

func writeFile(path string, r io.Reader) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	written, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return written, err
}

func observe(backend, status string, duration float64, size int64) {
	metrics.StorageOperationDuration.WithLabelValues(backend, status).Observe(duration)
	if size > 0 {
		metrics.UploadedBytes.WithLabelValues(backend).Add(float64(size))
	}
}
