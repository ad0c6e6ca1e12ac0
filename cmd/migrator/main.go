// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Command migrator applies or rolls back the embedded schema migrations.
//
// Usage:
//
//	migrator up [config flags]
//	migrator down [config flags]
//	migrator steps N [config flags]
//	migrator force VERSION [config flags]
//	migrator version [config flags]
//
// Config flags and environment are the same as the server's (-d, -t, -env-file).
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/danielhkuo/boardtime/cliparse"
	"github.com/danielhkuo/boardtime/db"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrator up|down|steps N|force VERSION|version [flags]")
	}
	action, rest := args[0], args[1:]

	var n int
	if action == "steps" || action == "force" {
		if len(rest) == 0 {
			return fmt.Errorf("%s requires a number", action)
		}
		v, err := strconv.Atoi(rest[0])
		if err != nil {
			return fmt.Errorf("invalid %s argument %q: %w", action, rest[0], err)
		}
		n, rest = v, rest[1:]
	}

	cfg, err := cliparse.ParseFlags(rest)
	if err != nil {
		return err
	}

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	m, release, err := db.NewMigrator(ctx, conn, cfg.DatabaseType)
	if err != nil {
		return err
	}
	defer release()

	switch action {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "steps":
		err = m.Steps(n)
	case "force":
		err = m.Force(n)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			slog.Info("no migrations applied")
			return nil
		}
		if verr != nil {
			return verr
		}
		slog.Info("current version", "version", version, "dirty", dirty)
		return nil
	default:
		return fmt.Errorf("unknown action %q", action)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		slog.Info("no change", "action", action)
		return nil
	}
	if err != nil {
		return err
	}

	slog.Info("migration complete", "action", action)
	return nil
}
