package httpclient

import (
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// TracingClient wraps http.Client and forwards the caller's trace context.
// It satisfies the aws-sdk-go-v2 HTTPClient interface.
type TracingClient struct {
	client *http.Client
}

// NewTracingClient creates a client with the given overall request timeout
func NewTracingClient(timeout time.Duration) *TracingClient {
	return &TracingClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Do injects trace propagation headers and executes the request
func (c *TracingClient) Do(req *http.Request) (*http.Response, error) {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return c.client.Do(req)
}
