package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-social-users/internal/application"
	"github.com/oksasatya/go-social-users/internal/domain/gateway"
	"github.com/oksasatya/go-social-users/pkg/helpers"
	"github.com/oksasatya/go-social-users/pkg/response"
	"github.com/oksasatya/go-social-users/pkg/validation"
)

// writeError maps service errors onto the envelope.
//
//	*validation.Error            400, error = field -> messages
//	ServiceUnavailableError      503
//	ErrUserNotFound              404
//	ErrInvalidCredentials        401
//	anything else                500, details are only logged
func writeError(c *gin.Context, log *logrus.Logger, err error) {
	var ve *validation.Error
	var se *application.ServiceUnavailableError
	switch {
	case errors.As(err, &ve):
		response.Error[any](c, http.StatusBadRequest, "validation failed", ve.Fields)
	case errors.As(err, &se):
		response.Error[any](c, http.StatusServiceUnavailable, se.Service+" unavailable, try again later", nil)
	case errors.Is(err, gateway.ErrUnavailable):
		response.Error[any](c, http.StatusServiceUnavailable, "upstream service unavailable", nil)
	case errors.Is(err, application.ErrUserNotFound):
		response.Error[any](c, http.StatusNotFound, "user not found", nil)
	case errors.Is(err, application.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, helpers.ErrUnsupportedImage):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		if log != nil {
			log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}

// bindJSON decodes the body; failures are answered with 400 and false is returned.
func bindJSON(c *gin.Context, dst any) bool {
	validation.Init()
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return false
	}
	return true
}
