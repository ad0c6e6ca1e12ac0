// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /api/meetings/{id}", middleware.WithLogging(handler))

Logs request start and completion with the request id, status and
duration, and records the duration in the request histogram labelled by
route pattern.

# Request IDs

RequestID reuses an incoming X-Request-ID or generates one, echoes it on
the response and stores it in the request context:

	id := middleware.RequestIDFromContext(r.Context())

# CORS

CORS builds a rs/cors handler for the configured frontend origins:

	handler := middleware.CORS(cfg.AllowedOrigins)(mux)

# JSON Helpers

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)

Used as the rate limit key after hashing.
*/
package middleware
