// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the BoardTime API server.

BoardTime schedules board meetings: an owner proposes candidate dates,
participants mark the dates they can attend under a nickname, and the
dates are ranked by how many participants can make them.

# Starting the Server

With no configuration the server uses SQLite:

	DATABASE_URL=file:boardtime.db go run .

Or PostgreSQL with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Settings come from a .env file, the environment and CLI flags, in that
order of increasing precedence:

  - DATABASE_URL (-d): connection string (required)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PORT (-p): server port (default: 3318)
  - APP_ENV, LOG_LEVEL: local uses text logs, other environments JSON
  - TIMEZONE: zone for timestamps sent without an offset (default: UTC)
  - PASSWORD_COST, IP_HASH_SALT, ALLOWED_ORIGINS

Optional infrastructure, disabled when unset:

  - REDIS_ADDR, RATE_LIMIT_PER_MINUTE: per-IP limits on password endpoints
  - KAFKA_BROKERS, KAFKA_TOPIC: domain events
  - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_SERVICE_NAME: tracing

# Architecture

  - handlers: HTTP request handlers (meetings, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - meetings, ledger, tally: domain services
  - store: SQL persistence for PostgreSQL and SQLite
  - db: connections and embedded migrations
  - middleware: request ids, CORS, logging, JSON helpers
  - events, metrics, ratelimit, telemetry: optional infrastructure
  - models: request, response and domain types
  - auth: ids and password hashing
  - cliparse: configuration parsing

Migrations can also be run separately with cmd/migrator.
*/
package main
