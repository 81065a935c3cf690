// Command resetcron runs one campaign rollover sweep and exits. It is
// an alternative to the in-process scheduler for deployments that
// prefer an external cron.
package main

import (
	"context"
	"log"
	"time"

	"wordrealm/internal/config"
	"wordrealm/internal/database"
	"wordrealm/internal/dictionary"
	"wordrealm/internal/service"
)

func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	dict, err := dictionary.Load(cfg.WordListPath, cfg.PlayableListPath)
	if err != nil {
		log.Fatalf("Failed to load word lists: %v", err)
	}

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.EmailFrom, cfg.EmailName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	lifecycle := service.NewLifecycleService(db, dict, service.NewAccoladeService(), emailService)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	count, err := lifecycle.ResetExpired(ctx, time.Now())
	if err != nil {
		log.Fatalf("Campaign reset sweep failed: %v", err)
	}
	log.Printf("Campaign reset sweep complete: %d campaign(s) rolled over", count)
}
