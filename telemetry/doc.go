// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package telemetry configures OpenTelemetry tracing over OTLP/HTTP.
package telemetry
