package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/danielhkuo/boardtime/cliparse"
	"github.com/danielhkuo/boardtime/db"
	"github.com/danielhkuo/boardtime/events"
	"github.com/danielhkuo/boardtime/metrics"
	"github.com/danielhkuo/boardtime/ratelimit"
	"github.com/danielhkuo/boardtime/router"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/telemetry"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		slog.Error("tracing setup failed", "error", err)
		os.Exit(1)
	}
	defer func() {
		c, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	// Connect to the database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Apply migrations
	if err := db.Migrate(ctx, dbConn, cfg.DatabaseType); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	deps := router.Dependencies{
		Store:     store.New(dbConn, cfg.DatabaseType),
		Publisher: events.NopPublisher{},
	}

	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, func(err error) {
			metrics.EventPublishFailures.WithLabelValues("async").Inc()
			slog.Warn("event delivery failed", "error", err)
		})
		defer kp.Close()
		deps.Publisher = kp
		slog.Info("Publishing events", "brokers", strings.Join(cfg.KafkaBrokers, ","), "topic", cfg.KafkaTopic)
	}

	if cfg.RedisAddr != "" && cfg.RateLimit > 0 {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			// The limiter fails open, so an unreachable Redis only disables limiting
			slog.Warn("redis ping failed", "addr", cfg.RedisAddr, "error", err)
		}
		deps.Limiter = ratelimit.New(rdb, cfg.RateLimit, time.Minute)
		slog.Info("Rate limiting enabled", "per_minute", cfg.RateLimit)
	}

	// Create server
	server := http.Server{
		Handler:           otelhttp.NewHandler(router.NewRouter(deps, cfg), "http.server"),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C or SIGTERM, then drain in-flight requests
		<-ctx.Done()
		c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(c); err != nil {
			slog.Warn("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "env", cfg.Env)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}

func newLogger(cfg cliparse.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Env == cliparse.EnvLocal {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
