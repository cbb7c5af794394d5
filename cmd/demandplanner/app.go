package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/gorm"

	"demand-planner/internal/admission"
	"demand-planner/internal/capture"
	"demand-planner/internal/config"
	"demand-planner/internal/repository"
	"demand-planner/internal/service"
)

const shutdownTimeout = 10 * time.Second

var errNotLoggedIn = errors.New("not logged in: run `demandplanner login <key>` first")

// app bundles the services every command needs.
type app struct {
	cfg      config.Config
	db       *gorm.DB
	logger   *log.Logger
	store    *service.TaskStore
	auth     *service.AuthService
	users    *repository.UserRepository
	metrics  *service.MetricsService
	reminder *service.ReminderService
}

// openApp loads configuration, opens the database and hydrates the store.
// A failed read leaves the store empty and the app usable.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.DatabaseURL = dbPath
	}
	if configPath != "" {
		cfg.ConfigFile = configPath
		if err := cfg.ApplyFile(configPath); err != nil {
			return nil, err
		}
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)

	db, err := repository.NewDB(cfg.DatabaseURL, os.Stderr)
	if err != nil {
		return nil, err
	}

	store := service.NewTaskStore(repository.NewTaskRepository(db),
		service.WithLogger(logger),
		service.WithPolicy(admission.NewPolicy(cfg.Limits)),
		service.WithParser(capture.NewParser(cfg.Keywords)),
	)
	if err := store.Load(ctx); err != nil {
		logger.Printf("[error] starting with an empty backlog: %v", err)
	}

	auth := service.NewAuthService(repository.NewAccessKeyRepository(db), logger)
	if err := auth.Seed(ctx, cfg.AccessKey); err != nil {
		logger.Printf("[error] %v", err)
	}

	return &app{
		cfg:      cfg,
		db:       db,
		logger:   logger,
		store:    store,
		auth:     auth,
		users:    repository.NewUserRepository(db),
		metrics:  service.NewMetricsService(store),
		reminder: service.NewReminderService(store),
	}, nil
}

// close drains pending writes before releasing the database.
func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.store.Close(ctx); err != nil {
		a.logger.Printf("[error] flush writes: %v", err)
	}
	if err := repository.Close(a.db); err != nil {
		a.logger.Printf("[error] close db: %v", err)
	}
}

func (a *app) session() (*config.FileSession, error) {
	return config.NewFileSession("")
}

// requireLogin fails unless the local session holds a valid login.
func (a *app) requireLogin(ctx context.Context) error {
	session, err := a.session()
	if err != nil {
		return err
	}
	if !a.auth.Authorized(ctx, session) {
		return errNotLoggedIn
	}
	return nil
}

// withApp opens the app, optionally checks the login and runs fn.
func withApp(ctx context.Context, needLogin bool, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	if needLogin {
		if err := a.requireLogin(ctx); err != nil {
			return err
		}
	}
	return fn(a)
}
