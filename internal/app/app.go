package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hance08/fairshare/internal/config"
	"github.com/hance08/fairshare/internal/logger"
	"github.com/hance08/fairshare/internal/service"
	"github.com/hance08/fairshare/internal/store"
	"github.com/sirupsen/logrus"
)

type App struct {
	Service *service.Service
	Store   store.Repository
	Log     *logrus.Logger
}

// NewApp initialize logger, database and services, then return App entity
func NewApp(cfg *config.Config) (*App, func(), error) {
	log, closeLog, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	dbPathRaw := cfg.Database.Path
	if dbPathRaw == "" {
		appDir, _ := AppDataDir()
		dbPathRaw = filepath.Join(appDir, "fairshare.db")
		cfg.Database.Path = dbPathRaw
	}

	busyTimeout := time.Duration(cfg.Database.BusyTimeoutMS) * time.Millisecond
	dbStore, err := store.NewStore(dbPathRaw, busyTimeout)
	if err != nil {
		closeLog()
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	log.WithField("path", dbPathRaw).Debug("database opened")

	svc := service.NewService(dbStore, cfg, log)

	cleanup := func() {
		if err := dbStore.Close(); err != nil {
			log.WithError(err).Error("failed to close database")
		}
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing log file: %v\n", err)
		}
	}

	return &App{
		Service: svc,
		Store:   dbStore,
		Log:     log,
	}, cleanup, nil
}

// AppDataDir is where the config file and the default database live.
func AppDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("unable to determine user home directory: %w", err)
		}
		return filepath.Join(home, ".fairshare"), nil
	}

	return filepath.Join(configDir, "fairshare"), nil
}
