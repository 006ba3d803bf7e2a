// Package di wires the application's dependency graph by hand. Construction
// order matters: storage first, then the event store, then the services that
// use it.
package di

import (
	"context"
	"database/sql"
	"fmt"

	"clipshelf/application/ports"
	"clipshelf/application/projections"
	"clipshelf/application/services"
	"clipshelf/infrastructure/config"
	"clipshelf/infrastructure/persistence"
	"clipshelf/infrastructure/persistence/memory"
	"clipshelf/infrastructure/persistence/sqlite"
	"clipshelf/pkg/observability"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Container holds the fully constructed dependency graph
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Collector
	EventStore  ports.EventStore
	Projections ports.ProjectionStore
	ListService *services.ListService
	ItemService *services.ItemService
	Rebuilder   *projections.Rebuilder

	db *sql.DB
}

// InitializeContainer builds the dependency graph from configuration.
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger, err := buildLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	metrics := observability.NewCollector("clipshelf")

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}

	var eventLog ports.EventLog
	if cfg.UseMemory {
		eventLog = memory.NewEventLog()
		c.Projections = memory.NewProjectionStore()
	} else {
		db, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		if err := sqlite.EnsureSchema(ctx, db, logger); err != nil {
			db.Close()
			return nil, err
		}
		c.db = db
		eventLog = sqlite.NewEventLog(db)
		c.Projections = sqlite.NewProjectionStore(db)
	}

	// The breaker sits between the event store and the backend so a failing
	// storage layer sheds load instead of being hammered.
	guarded := persistence.NewBreakerEventLog(eventLog, logger)
	c.EventStore = persistence.NewEventStore(guarded, c.Projections, logger, metrics)

	c.ListService = services.NewListService(c.EventStore, c.Projections, logger)
	c.ItemService = services.NewItemService(c.EventStore, c.Projections, c.ListService, logger)
	c.Rebuilder = projections.NewRebuilder(c.EventStore, c.Projections, logger)

	return c, nil
}

// Close releases the container's resources.
func (c *Container) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, err
	}

	if cfg.IsDevelopment() {
		zcfg := zap.NewDevelopmentConfig()
		zcfg.Level = zap.NewAtomicLevelAt(level)
		return zcfg.Build()
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
