package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondSentinel maps the error taxonomy onto HTTP statuses: not-found to
// 404, bad input to 400/422, backend unavailability to 502, timeouts to 504,
// everything unrecognized to 500.
func RespondSentinel(c *gin.Context, code string, err error) {
	switch {
	case errors.Is(err, errdef.ErrNotFound):
		RespondError(c, http.StatusNotFound, code, err)
	case errors.Is(err, errdef.ErrMalformedAction):
		RespondError(c, http.StatusBadRequest, code, err)
	case errors.Is(err, errdef.ErrOutOfRange), errors.Is(err, errdef.ErrUnsupported):
		RespondError(c, http.StatusUnprocessableEntity, code, err)
	case errors.Is(err, errdef.ErrUnavailable):
		RespondError(c, http.StatusBadGateway, code, err)
	case errors.Is(err, errdef.ErrTimeout):
		RespondError(c, http.StatusGatewayTimeout, code, err)
	default:
		RespondError(c, http.StatusInternalServerError, code, err)
	}
}
