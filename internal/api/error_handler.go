package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mzhdanov/authd/internal/service"
	"github.com/mzhdanov/authd/internal/storage"
)

// ErrorHandler translates the domain error taxonomy into transport statuses.
// The services guarantee each kind is distinguishable; this is the only place
// that knows about HTTP codes.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, reason := statusForError(err)

		if status == http.StatusInternalServerError {
			log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		}
		if writeErr := c.JSON(status, map[string]string{"reason": reason}); writeErr != nil {
			log.Errorw("failed to write json response", "error", writeErr)
		}
	}
}

func statusForError(err error) (int, string) {
	var typeErr *service.InvalidTokenTypeError
	if errors.As(err, &typeErr) {
		return http.StatusUnprocessableEntity, typeErr.Error()
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		if msg, ok := he.Message.(string); ok {
			return he.Code, msg
		}
		return he.Code, http.StatusText(he.Code)
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrMissingToken),
		errors.Is(err, service.ErrExpiredSignature),
		errors.Is(err, service.ErrMalformedToken):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrWithdrawnToken):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrMissingSubject):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrUserExists), errors.Is(err, storage.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, storage.ErrValueOutOfRange):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}
