package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"listing-radar/internal/app"
	"listing-radar/internal/config"
	"listing-radar/internal/domain/listing"
)

// crawler runs one blocking crawl cycle and exits. Meant for cron.
func main() {
	triggerFlag := flag.String("trigger", "schedule", "trigger kind recorded on the run (manual|schedule)")
	flag.Parse()

	logger := log.Default()

	trigger := listing.TriggerSchedule
	switch *triggerFlag {
	case "schedule":
	case "manual":
		trigger = listing.TriggerManual
	default:
		logger.Fatalf("unknown trigger %q", *triggerFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	container, err := app.NewContainer(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to build container: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			logger.Printf("cleanup error: %v", err)
		}
	}()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 60*time.Second)
	if err := container.Migrate(migrateCtx); err != nil {
		cancelMigrate()
		logger.Fatalf("failed to migrate database: %v", err)
	}
	cancelMigrate()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := container.CrawlUC.RunBlocking(ctx, trigger)
	if err != nil {
		logger.Printf("crawl error: %v", err)
		os.Exit(1)
	}

	fmt.Printf("crawl finished: attempted=%d succeeded=%d failed=%d listings=%d new_matches=%d duration=%.1fs aborted=%t\n",
		summary.SourcesAttempted, summary.SourcesSucceeded, summary.SourcesFailed,
		summary.TotalListings, summary.NewMatches, summary.DurationSeconds, summary.Aborted)

	if summary.SourcesAttempted > 0 && summary.SourcesSucceeded == 0 {
		os.Exit(1)
	}
}
