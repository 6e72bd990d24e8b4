package handlers

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/pkg/errors"
	"github.com/villagestay/villagestay/pkg/logger"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var statusByCode = map[string]int{
	errors.ErrCodeNotFound:             http.StatusNotFound,
	errors.ErrCodeDuplicateApplication: http.StatusConflict,
	errors.ErrCodeInvalidTransition:    http.StatusConflict,
	errors.ErrCodeAlreadyExists:        http.StatusConflict,
	errors.ErrCodeValidation:           http.StatusBadRequest,
	errors.ErrCodeInvalidAmount:        http.StatusBadRequest,
	errors.ErrCodeInsufficientBalance:  http.StatusUnprocessableEntity,
	errors.ErrCodeUnauthorized:         http.StatusUnauthorized,
	errors.ErrCodeForbidden:            http.StatusForbidden,
	errors.ErrCodeRateLimitExceeded:    http.StatusTooManyRequests,
}

// StatusForCode maps an AppError code to an HTTP status.
func StatusForCode(code string) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorHandler is installed as echo's HTTPErrorHandler.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  errors.ErrCodeInternalError,
	}

	var appErr *errors.AppError
	var httpErr *echo.HTTPError
	switch {
	case stderrors.As(err, &appErr):
		status = StatusForCode(appErr.Code)
		body = ErrorResponse{Error: appErr.Message, Code: appErr.Code}
	case stderrors.As(err, &httpErr):
		status = httpErr.Code
		body = ErrorResponse{Error: fmt.Sprint(httpErr.Message), Code: codeForStatus(httpErr.Code)}
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(status)
	} else {
		err = c.JSON(status, body)
	}
	if err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return errors.ErrCodeValidation
	case http.StatusUnauthorized:
		return errors.ErrCodeUnauthorized
	case http.StatusForbidden:
		return errors.ErrCodeForbidden
	case http.StatusNotFound:
		return errors.ErrCodeNotFound
	case http.StatusTooManyRequests:
		return errors.ErrCodeRateLimitExceeded
	}
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
