package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/monai/airquality-dashboard/services/dashboard/backend"
	"github.com/monai/airquality-dashboard/services/dashboard/db"
)

// statusOf maps a data-source error to the response status and message.
func statusOf(err error) (int, string) {
	var se *backend.StatusError
	switch {
	case errors.As(err, &se):
		switch se.Code {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden,
			http.StatusNotFound, http.StatusConflict, http.StatusUnprocessableEntity:
			if se.Detail != "" {
				return se.Code, se.Detail
			}
			return se.Code, http.StatusText(se.Code)
		}
		return http.StatusBadGateway, err.Error()
	case errors.Is(err, backend.ErrUnsupported):
		return http.StatusNotImplemented, err.Error()
	case errors.Is(err, db.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, db.ErrConflict):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, err.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

func writeError(c *gin.Context, err error) {
	status, msg := statusOf(err)
	c.JSON(status, gin.H{"error": msg})
}

func abortWithError(c *gin.Context, err error) {
	status, msg := statusOf(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
