package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/config"
	"github.com/doodlesbykumbi/footprint/pkg/db"
	"github.com/doodlesbykumbi/footprint/pkg/logging"
)

// fail prints to stderr and exits with status 1.
func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// loadConfig loads, validates and installs the global configuration.
func loadConfig() (*config.FootprintConfig, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.Set(cfg)
	return cfg, nil
}

func newLogger(cfg *config.FootprintConfig) (*zap.Logger, zap.AtomicLevel, error) {
	return logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
}

// openDatabase loads the configuration and connects to the local database.
// Commands that only touch the database share it.
func openDatabase() (*config.FootprintConfig, *gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	gormDB, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}

func closeDatabase(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
