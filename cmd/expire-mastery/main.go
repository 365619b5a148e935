// Command expire-mastery returns mastered words whose return date has elapsed
// to the active pool as NEEDS_CHECK, across all students. It is intended to be
// invoked by an external cron job, not as an in-process goroutine; sessions
// also run the sweep for their own list, so this is a backstop for idle
// students.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/wordpace/wordpace-backend/internal/adapter/postgres"
	"github.com/wordpace/wordpace-backend/internal/adapter/postgres/studystate"
	"github.com/wordpace/wordpace-backend/internal/app"
	"github.com/wordpace/wordpace-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)
	logger.Info("starting mastery expiry sweep", slog.String("version", app.BuildVersion()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	stateRepo := studystate.New(pool)

	now := time.Now().UTC()

	expired, err := stateRepo.ExpireMasteredBefore(ctx, now)
	if err != nil {
		logger.Error("mastery expiry sweep failed",
			slog.String("error", err.Error()),
			slog.Time("now", now),
		)
		os.Exit(1)
	}

	logger.Info("mastery expiry sweep completed",
		slog.Int64("expired", expired),
		slog.Time("now", now),
	)
}
