package http

import (
	"errors"
	"net/http"

	"supplychain/internal/core/domain/model/kernel"
	"supplychain/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	var ve *validationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}

	switch {
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrInvalidState),
		errors.Is(err, errs.ErrAlreadyAssigned),
		errors.Is(err, errs.ErrAlreadyPaid),
		errors.Is(err, errs.ErrAmbiguousBinding):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrAttestationFailed):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, kernel.ErrUUIDIsNotConstructed):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	response := ErrorResponse{Code: code, Message: err.Error()}

	var ve *validationError
	if errors.As(err, &ve) {
		response.Message = "validation failed"
		response.Details = ve.details
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			response.Message = msg
		}
	}

	if code >= http.StatusInternalServerError && code != http.StatusBadGateway {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		response.Message = http.StatusText(code)
	}

	return c.JSON(code, response)
}
