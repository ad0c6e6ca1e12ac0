// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/boardtime/middleware"
	"github.com/danielhkuo/boardtime/models"
)

// Machine-readable error codes
const (
	CodeInvalidRequest   = "invalid_request"
	CodeEmptyDateOptions = "empty_date_options"
	CodeInvalidOption    = "invalid_option"
	CodeInvalidPassword  = "invalid_password"
	CodePasswordMismatch = "password_mismatch"
	CodeNotFound         = "not_found"
	CodeMeetingExpired   = "meeting_expired"
	CodeInternal         = "internal"
)

// writeError maps a domain error to its HTTP status and code.
// Anything unrecognized is logged and reported as a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := classify(err)

	switch {
	case status >= 500:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"error", err,
		)
		middleware.ErrorResponse(w, status, code, "internal server error")
		return
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		slog.Warn("password rejected", "path", r.URL.Path, "code", code)
	default:
		slog.Info("request rejected", "path", r.URL.Path, "code", code, "error", err)
	}

	middleware.ErrorResponse(w, status, code, err.Error())
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrEmptyDateOptions):
		return http.StatusBadRequest, CodeEmptyDateOptions
	case errors.Is(err, models.ErrInvalidOption):
		return http.StatusBadRequest, CodeInvalidOption
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, models.ErrInvalidPassword):
		return http.StatusUnauthorized, CodeInvalidPassword
	case errors.Is(err, models.ErrPasswordMismatch):
		return http.StatusForbidden, CodePasswordMismatch
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, models.ErrMeetingExpired):
		return http.StatusConflict, CodeMeetingExpired
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func badRequest(w http.ResponseWriter, message string) {
	middleware.ErrorResponse(w, http.StatusBadRequest, CodeInvalidRequest, message)
}
