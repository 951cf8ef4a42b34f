package handlers

import (
	"github.com/getmentor/registration-api/internal/models"
	"github.com/gin-gonic/gin"
)

// attachError attaches err to the gin context so the observability middleware
// can include the reason in the request log. c.Error() returns *gin.Error (not
// the error interface), so we suppress errcheck here intentionally.
func attachError(c *gin.Context, err error) {
	if err != nil {
		_ = c.Error(err) //nolint:errcheck
	}
}

// respondError sends a {message, error} JSON body. The underlying error text is
// passed to the client verbatim.
func respondError(c *gin.Context, status int, message string, err error) {
	attachError(c, err)
	resp := models.RegistrationResponse{Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}
