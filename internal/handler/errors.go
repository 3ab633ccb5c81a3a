package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"plan-marketplace/internal/dto"
	"plan-marketplace/internal/payment"
	"plan-marketplace/internal/service"

	"github.com/labstack/echo/v4"
)

// ErrorHandler turns handler errors into {"message": ...} responses.
// Anything unrecognised is logged and reported as a generic 500.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := classify(err)
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.Any("error", err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, dto.MessageResponse{Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", slog.Any("error", err))
		}
	}
}

func classify(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			return he.Code, http.StatusText(he.Code)
		}
		return he.Code, fmt.Sprint(he.Message)
	}

	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, payment.ErrMalformedPayload),
		errors.Is(err, payment.ErrNotCompleted),
		errors.Is(err, payment.ErrOrderMismatch):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrSignatureMismatch):
		return http.StatusBadRequest, "payment verification failed"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, err.Error()
	}
	return http.StatusInternalServerError, "internal server error"
}
