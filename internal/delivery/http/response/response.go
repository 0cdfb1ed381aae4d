// Package response holds the unified API response envelope. Every endpoint
// answers with the same shape so callers can branch on success and the
// stable numeric business code alone.
package response

import (
	"net/http"

	domainerrors "riskctl/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Success writes a successful response carrying data.
func Success(c echo.Context, statusCode int, data any, message string) error {
	if message == "" {
		message = "Success"
	}

	return c.JSON(statusCode, domainerrors.Response{
		Success: true,
		Code:    statusCode,
		Message: message,
		Data:    data,
	})
}

// Error writes an error response with the given business code.
func Error(c echo.Context, statusCode int, businessCode int, message string, details string) error {
	if message == "" {
		message = http.StatusText(statusCode)
	}

	return c.JSON(statusCode, domainerrors.Response{
		Success: false,
		Code:    statusCode,
		Message: message,
		Error: &domainerrors.ErrorInfo{
			Code:    businessCode,
			Message: message,
			Details: details,
		},
	})
}

// MissingParameter writes the 1001 validation error naming the field.
func MissingParameter(c echo.Context, field string) error {
	missing := domainerrors.ErrMissingParameter

	return Error(c, missing.HTTPCode(), missing.Code(), missing.Message(), field+" is required")
}

// BindingError writes the 1002 error for an unparseable request body.
func BindingError(c echo.Context, details string) error {
	invalid := domainerrors.ErrInvalidParameter

	return Error(c, invalid.HTTPCode(), invalid.Code(), invalid.Message(), details)
}

// HandleAppError writes the response for a usecase error: AppErrors map to
// their own HTTP status and business code, anything else becomes the
// generic internal error.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return Error(c, appErr.HTTPCode(), appErr.Code(), appErr.Message(), appErr.Details())
	}

	internal := domainerrors.ErrInternal

	return Error(c, internal.HTTPCode(), internal.Code(), internal.Message(), "")
}
