package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/getmentor/registration-api/internal/models"
	"github.com/getmentor/registration-api/internal/services"
	"github.com/gin-gonic/gin"
)

// RegistrationHandler handles registration form submissions
type RegistrationHandler struct {
	service services.RegistrationServiceInterface
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(service services.RegistrationServiceInterface) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register handles POST /api/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	receivedAt := time.Now()

	submission, cleanup, err := decodeSubmission(c, receivedAt)
	if err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		respondError(c, status, models.InvalidBodyMessage, err)
		return
	}
	defer cleanup()

	if _, err := h.service.Submit(c.Request.Context(), submission); err != nil {
		respondError(c, http.StatusInternalServerError, models.RegistrationFailureMessage, err)
		return
	}

	c.JSON(http.StatusOK, models.RegistrationResponse{Message: models.RegistrationSuccessMessage})
}
