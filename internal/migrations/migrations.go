// Package migrations applies golang-migrate schema files to the ledger stores.
package migrations

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source
	"go.uber.org/zap"
)

type Options struct {
	DatabaseURL string `long:"database-url" env:"MIGRATIONS_DATABASE_URL" description:"migrate database URL" required:"true"`
	Dir         string `long:"migrations-dir" env:"MIGRATIONS_DIR" description:"path to migration files"`
	// Steps migrates relative to the current version when non-zero.
	Steps int `long:"steps" env:"MIGRATIONS_STEPS" description:"relative steps to migrate, negative rolls back"`
	// Down rolls every migration back and wins over Steps.
	Down bool `long:"down" env:"MIGRATIONS_DOWN" description:"roll back all migrations"`
}

// SourceURL turns a migrations directory into a file:// source URL.
func SourceURL(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat migrations dir %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Run applies the migrations in opts.Dir. The database driver must be
// registered by the caller.
func Run(ctx context.Context, opts Options, logger *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	source, err := SourceURL(opts.Dir)
	if err != nil {
		return err
	}

	m, err := migrate.New(source, opts.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			logger.Warn("migration source close error", zap.Error(srcErr))
		}
		if dbErr != nil {
			logger.Warn("migration database close error", zap.Error(dbErr))
		}
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	switch {
	case opts.Down:
		err = m.Down()
	case opts.Steps != 0:
		err = m.Steps(opts.Steps)
	default:
		err = m.Up()
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to apply", zap.String("source", source))
		return nil
	}
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	logger.Info("migrations applied", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
