// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

Sources are applied in order, later ones winning:

 1. .env in the working directory, or the file named by -env-file (godotenv;
    never overrides variables that are already set)
 2. Environment variables (cleanenv, with env-default values)
 3. CLI flags

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type (sqlite or postgres)
	-env-file   Path to a .env file

# Environment Variables

	APP_ENV                       local | dev | prod (default local)
	LOG_LEVEL                     debug | info | warn | error (default info)
	PORT                          default 3318
	DATABASE_URL                  required
	DATABASE_TYPE                 sqlite | postgres (default sqlite)
	IP_HASH_SALT                  salt for rate-limit keys
	PASSWORD_COST                 bcrypt cost (default 10)
	TIMEZONE                      zone for offset-less timestamps (default UTC)
	ALLOWED_ORIGINS               comma separated CORS origins
	REDIS_ADDR                    enables rate limiting
	RATE_LIMIT_PER_MINUTE         default 30
	KAFKA_BROKERS                 comma separated; enables event publishing
	KAFKA_TOPIC                   default boardtime.events
	OTEL_EXPORTER_OTLP_ENDPOINT   enables tracing
	OTEL_SERVICE_NAME             default boardtime

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is empty
  - DATABASE_TYPE is not sqlite or postgres
  - TIMEZONE cannot be loaded
  - the port is out of range
*/
package cliparse
