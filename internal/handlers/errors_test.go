package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/pkg/errors"
)

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeDuplicateApplication, http.StatusConflict},
		{errors.ErrCodeInvalidTransition, http.StatusConflict},
		{errors.ErrCodeValidation, http.StatusBadRequest},
		{errors.ErrCodeInvalidAmount, http.StatusBadRequest},
		{errors.ErrCodeInsufficientBalance, http.StatusUnprocessableEntity},
		{errors.ErrCodeUnauthorized, http.StatusUnauthorized},
		{errors.ErrCodeForbidden, http.StatusForbidden},
		{errors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{errors.ErrCodeInternalError, http.StatusInternalServerError},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := StatusForCode(tt.code); got != tt.want {
				t.Errorf("StatusForCode(%s) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		err        error
		wantStatus int
		wantBody   *ErrorResponse
	}{
		{
			name:       "App error",
			method:     http.MethodGet,
			err:        errors.New(errors.ErrCodeNotFound, "village \"x\" not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   &ErrorResponse{Error: "village \"x\" not found", Code: errors.ErrCodeNotFound},
		},
		{
			name:       "Wrapped app error",
			method:     http.MethodPost,
			err:        errors.Wrap(stderrors.New("boom"), errors.ErrCodeInsufficientBalance, "insufficient coins"),
			wantStatus: http.StatusUnprocessableEntity,
			wantBody:   &ErrorResponse{Error: "insufficient coins", Code: errors.ErrCodeInsufficientBalance},
		},
		{
			name:       "Echo route miss",
			method:     http.MethodGet,
			err:        echo.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantBody:   &ErrorResponse{Error: "Not Found", Code: errors.ErrCodeNotFound},
		},
		{
			name:       "Echo method not allowed",
			method:     http.MethodGet,
			err:        echo.ErrMethodNotAllowed,
			wantStatus: http.StatusMethodNotAllowed,
			wantBody:   &ErrorResponse{Error: "Method Not Allowed", Code: "METHOD_NOT_ALLOWED"},
		},
		{
			name:       "Plain error hides detail",
			method:     http.MethodGet,
			err:        stderrors.New("db password leaked"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   &ErrorResponse{Error: "internal server error", Code: errors.ErrCodeInternalError},
		},
		{
			name:       "HEAD has no body",
			method:     http.MethodHead,
			err:        errors.New(errors.ErrCodeForbidden, "no"),
			wantStatus: http.StatusForbidden,
		},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/v1/test", nil), rec)

			ErrorHandler(tt.err, c)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody == nil {
				if rec.Body.Len() != 0 {
					t.Errorf("body = %q, want empty", rec.Body.String())
				}
				return
			}
			var got ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", rec.Body.String(), err)
			}
			if got != *tt.wantBody {
				t.Errorf("body = %+v, want %+v", got, *tt.wantBody)
			}
		})
	}
}
