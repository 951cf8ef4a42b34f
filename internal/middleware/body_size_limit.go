package middleware

import (
	"fmt"
	"net/http"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/gin-gonic/gin"
)

// BodySizeLimitMiddleware caps request bodies at maxBodySize bytes.
// Requests that declare a larger Content-Length are refused up front;
// streamed bodies fail inside the handler with *http.MaxBytesError.
func BodySizeLimitMiddleware(maxBodySize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBodySize {
			err := fmt.Errorf("request body exceeds %d bytes", maxBodySize)
			_ = c.Error(err) //nolint:errcheck
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, models.RegistrationResponse{
				Message: models.InvalidBodyMessage,
				Error:   err.Error(),
			})
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize)
		c.Next()
	}
}
