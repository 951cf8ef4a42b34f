package profiling

import (
	"testing"

	"github.com/getmentor/registration-api/config"
	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfileTypes_Default(t *testing.T) {
	got, err := parseProfileTypes("")
	require.NoError(t, err)
	assert.Equal(t, defaultProfileTypes, got)
}

func TestParseProfileTypes_DeduplicatesAndExpands(t *testing.T) {
	got, err := parseProfileTypes("cpu, mutex,cpu")
	require.NoError(t, err)

	assert.Equal(t, []pyroscope.ProfileType{
		pyroscope.ProfileCPU,
		pyroscope.ProfileMutexCount,
		pyroscope.ProfileMutexDuration,
	}, got)
}

func TestParseProfileTypes_Invalid(t *testing.T) {
	_, err := parseProfileTypes("cpu,unknown")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported O11Y_PROFILING_SAMPLE_TYPES")
}

func TestBuildApplicationName(t *testing.T) {
	obs := config.ObservabilityConfig{ServiceName: "registration-api", ServiceNamespace: "registration"}

	assert.Equal(t,
		"registration-api{service_name=registration-api,namespace=registration,environment=production}",
		buildApplicationName("", obs, "production"))

	obs.ServiceInstanceID = "inst-1"
	assert.Equal(t,
		"custom{service_name=registration-api,namespace=registration,environment=staging,instance=inst-1}",
		buildApplicationName(" custom ", obs, "staging"))
}

func TestStart_Disabled(t *testing.T) {
	stop, err := Start(config.ProfilingConfig{}, config.ObservabilityConfig{}, config.UploadsConfig{}, "test")
	require.NoError(t, err)
	stop()
}

func TestBuildTags(t *testing.T) {
	obs := config.ObservabilityConfig{ServiceVersion: "1.2.0"}

	assert.Equal(t,
		map[string]string{"version": "1.2.0", "storage_backend": "disk"},
		buildTags(obs, config.UploadsConfig{Backend: config.StorageBackendDisk, Dir: "uploads"}))

	assert.Equal(t,
		map[string]string{"version": "1.2.0", "storage_backend": "s3", "bucket": "photos"},
		buildTags(obs, config.UploadsConfig{Backend: config.StorageBackendS3, S3: config.S3Config{BucketName: "photos"}}))
}

func TestStart_EnabledWithoutEndpoint(t *testing.T) {
	_, err := Start(config.ProfilingConfig{Enabled: true, Endpoint: "  "}, config.ObservabilityConfig{}, config.UploadsConfig{}, "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profiling endpoint is required")
}
