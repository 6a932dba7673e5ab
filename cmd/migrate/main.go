package main

import (
	"context"
	"flag"
	"log"

	"github.com/muhammadchandra19/historical-data/migrations"
	"github.com/muhammadchandra19/historical-data/pkg/config"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/migration"
	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
)

func main() {
	var (
		target    = flag.String("target", "questdb", "Database to migrate: questdb or postgres")
		direction = flag.String("direction", "up", "Migration direction: up, down or status")
		steps     = flag.Int("steps", 0, "Number of steps to migrate (0 = all)")
	)
	flag.Parse()

	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	var (
		executor migration.Executor
		dir      string
	)
	switch *target {
	case "questdb":
		client, err := questdb.NewClient(ctx, cfg.QuestDB)
		if err != nil {
			log.Fatalf("Failed to initialize QuestDB client: %v", err)
		}
		defer client.Close()
		executor, dir = migration.NewQuestDBExecutor(client), migrations.QuestDBDir
	case "postgres":
		client, err := postgresql.NewClient(ctx, cfg.Postgres)
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
		}
		defer client.Close()
		executor, dir = migration.NewPostgresExecutor(client, "public", "schema_migrations"), migrations.PostgresDir
	default:
		log.Fatalf("Invalid target: %s. Use 'questdb' or 'postgres'", *target)
	}

	runner := migration.NewRunner(executor, migrations.FS, dir, appLogger)

	// Run migrations based on direction
	switch *direction {
	case "up":
		applied, err := runner.MigrateUp(ctx, *steps)
		if err != nil {
			log.Fatalf("Failed to migrate up: %v", err)
		}
		log.Printf("Applied %d migration(s) to %s", applied, *target)
	case "down":
		reverted, err := runner.MigrateDown(ctx, *steps)
		if err != nil {
			log.Fatalf("Failed to migrate down: %v", err)
		}
		log.Printf("Reverted %d migration(s) on %s", reverted, *target)
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			log.Fatalf("Failed to read migration status: %v", err)
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			log.Printf("%-8s %s", state, s.Migration.ID)
		}
	default:
		log.Fatalf("Invalid direction: %s. Use 'up', 'down' or 'status'", *direction)
	}
}
