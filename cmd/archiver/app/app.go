package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/hydrometrics/adcp-survey/internal/storage"
)

const (
	storageDir = "archive"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStore(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	files, err := expandPaths(config.Input.Paths)
	if err != nil {
		return fmt.Errorf("failed to resolve input paths: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no deployment documents matched configured paths")
	}

	options := []func(*Importer){WithWorkers(config.Input.Workers)}
	if config.Input.CheckedOnly {
		options = append(options, WithCheckedOnly())
	}

	return NewImporter(store, logger, options...).Run(ctx, files)
}

func expandPaths(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding pattern '%s': %w", pattern, err)
		}
		files = append(files, matches...)
	}

	slices.Sort(files)
	return slices.Compact(files), nil
}

func createStore(config *StorageConfig) (*storage.SqliteStore, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	var dbPath string
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	} else {
		dbPath = filepath.Join(wd, storageDir)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("sensor_archive_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath), nil
}
