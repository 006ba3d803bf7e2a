// Command rebuild wipes the read models and refolds them from the event log.
// Run it after a crash or storage error leaves the projections inconsistent
// with the log.
package main

import (
	"context"
	"log"

	"clipshelf/infrastructure/config"
	"clipshelf/infrastructure/di"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Close()

	report, err := container.Rebuilder.Rebuild(ctx)
	if err != nil {
		container.Logger.Fatal("Rebuild failed", zap.Error(err))
	}

	container.Logger.Info("Rebuild finished",
		zap.Int("events_replayed", report.EventsReplayed),
		zap.Int("events_skipped", report.EventsSkipped),
	)
}
