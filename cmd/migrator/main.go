// Package main applies or reverts the product database migrations.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/abgdnv/productos/internal/store"
	"github.com/abgdnv/productos/pkg/bootstrap"
	"github.com/spf13/pflag"
)

const (
	databaseURLFlag = "database-url"
	directionFlag   = "direction"
	logLevelFlag    = "log-level"

	directionUp   = "up"
	directionDown = "down"
)

type flags struct {
	databaseURL string
	direction   string
	logLevel    string
}

func main() {
	f := parseFlags()
	logger := bootstrap.NewLogger(f.logLevel)

	if err := validateFlags(f); err != nil {
		logger.Error("invalid arguments", "error", err)
		pflag.Usage()
		os.Exit(2)
	}

	if err := migrateDB(f, logger); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags() flags {
	var f flags
	pflag.StringVarP(&f.databaseURL, databaseURLFlag, "d", os.Getenv("PRODUCT_DATABASE_URL"), "PostgreSQL connection URL")
	pflag.StringVar(&f.direction, directionFlag, directionUp, "migration direction: up or down")
	pflag.StringVar(&f.logLevel, logLevelFlag, "info", "log level")
	pflag.Parse()
	return f
}

func validateFlags(f flags) error {
	var errs []error
	if f.databaseURL == "" {
		errs = append(errs, fmt.Errorf("--%s flag: required", databaseURLFlag))
	}
	if f.direction != directionUp && f.direction != directionDown {
		errs = append(errs, fmt.Errorf("--%s flag: must be %q or %q, got %q", directionFlag, directionUp, directionDown, f.direction))
	}
	return errors.Join(errs...)
}

func migrateDB(f flags, logger *slog.Logger) error {
	if f.direction == directionDown {
		return store.Rollback(f.databaseURL, logger)
	}
	return store.Migrate(f.databaseURL, logger)
}
