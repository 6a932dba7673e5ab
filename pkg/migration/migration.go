package migration

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

// Migration represents a database migration
type Migration struct {
	ID        string
	Name      string
	Timestamp time.Time
	UpSQL     string
	DownSQL   string
}

// Executor applies migrations against one database engine.
type Executor interface {
	EnsureTable(ctx context.Context) error
	Applied(ctx context.Context) (map[string]bool, error)
	Apply(ctx context.Context, m Migration) error
	Revert(ctx context.Context, m Migration) error
}

// Status describes whether a migration has been applied.
type Status struct {
	Migration Migration
	Applied   bool
}

// Runner handles migration execution
type Runner struct {
	executor Executor
	files    fs.FS
	dir      string
	log      logger.Interface
}

// NewRunner creates a runner reading *.up.sql and *.down.sql files from dir inside files.
func NewRunner(executor Executor, files fs.FS, dir string, log logger.Interface) *Runner {
	if dir == "" {
		dir = "."
	}
	return &Runner{
		executor: executor,
		files:    files,
		dir:      dir,
		log:      log,
	}
}

// LoadMigrations loads all migrations ordered by file name
func (r *Runner) LoadMigrations() ([]Migration, error) {
	upFiles, err := fs.Glob(r.files, path.Join(r.dir, "*.up.sql"))
	if err != nil {
		return nil, err
	}

	sort.Strings(upFiles)

	migrations := make([]Migration, 0, len(upFiles))
	for _, upFile := range upFiles {
		m, err := r.parseMigrationFiles(upFile)
		if err != nil {
			return nil, fmt.Errorf("failed to parse migration %s: %w", upFile, err)
		}
		migrations = append(migrations, m)
	}

	return migrations, nil
}

func (r *Runner) parseMigrationFiles(upFilePath string) (Migration, error) {
	upContent, err := fs.ReadFile(r.files, upFilePath)
	if err != nil {
		return Migration{}, err
	}

	id := strings.TrimSuffix(path.Base(upFilePath), ".up.sql")
	downFilePath := strings.TrimSuffix(upFilePath, ".up.sql") + ".down.sql"

	// File names look like YYYYMMDDHHMMSS_name or 001_name.
	parts := strings.SplitN(id, "_", 2)
	name := id
	if len(parts) > 1 {
		name = parts[1]
	}

	timestamp, err := time.Parse("20060102150405", parts[0])
	if err != nil {
		timestamp = time.Unix(0, 0).UTC()
	}

	var downSQL string
	if downContent, err := fs.ReadFile(r.files, downFilePath); err == nil {
		downSQL = strings.TrimSpace(string(downContent))
	}

	return Migration{
		ID:        id,
		Name:      name,
		Timestamp: timestamp,
		UpSQL:     strings.TrimSpace(string(upContent)),
		DownSQL:   downSQL,
	}, nil
}

// Status lists every known migration with its applied flag.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.executor.EnsureTable(ctx); err != nil {
		return nil, err
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return nil, err
	}

	applied, err := r.executor.Applied(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]Status, 0, len(migrations))
	for _, m := range migrations {
		statuses = append(statuses, Status{Migration: m, Applied: applied[m.ID]})
	}
	return statuses, nil
}

// MigrateUp applies pending migrations. steps <= 0 applies all of them.
func (r *Runner) MigrateUp(ctx context.Context, steps int) (int, error) {
	if err := r.executor.EnsureTable(ctx); err != nil {
		return 0, err
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return 0, err
	}

	applied, err := r.executor.Applied(ctx)
	if err != nil {
		return 0, err
	}

	var toApply []Migration
	for _, m := range migrations {
		if !applied[m.ID] {
			toApply = append(toApply, m)
		}
	}

	if steps > 0 && len(toApply) > steps {
		toApply = toApply[:steps]
	}

	count := 0
	for _, m := range toApply {
		if m.UpSQL == "" {
			r.log.Warn("Skipping migration without UP SQL", logger.NewField("migration", m.ID))
			continue
		}

		if err := r.executor.Apply(ctx, m); err != nil {
			return count, fmt.Errorf("failed to apply migration %s: %w", m.ID, err)
		}

		r.log.Info("Applied migration", logger.NewField("migration", m.ID))
		count++
	}

	return count, nil
}

// MigrateDown reverts the most recent applied migrations
func (r *Runner) MigrateDown(ctx context.Context, steps int) (int, error) {
	if steps <= 0 {
		return 0, fmt.Errorf("steps must be greater than 0 for down migrations")
	}

	if err := r.executor.EnsureTable(ctx); err != nil {
		return 0, err
	}

	migrations, err := r.LoadMigrations()
	if err != nil {
		return 0, err
	}

	applied, err := r.executor.Applied(ctx)
	if err != nil {
		return 0, err
	}

	var toRevert []Migration
	for i := len(migrations) - 1; i >= 0 && len(toRevert) < steps; i-- {
		if applied[migrations[i].ID] {
			toRevert = append(toRevert, migrations[i])
		}
	}

	count := 0
	for _, m := range toRevert {
		if m.DownSQL == "" {
			return count, fmt.Errorf("no DOWN SQL found for migration %s - cannot revert", m.ID)
		}

		if err := r.executor.Revert(ctx, m); err != nil {
			return count, fmt.Errorf("failed to revert migration %s: %w", m.ID, err)
		}

		r.log.Info("Reverted migration", logger.NewField("migration", m.ID))
		count++
	}

	return count, nil
}

// splitStatements breaks a script into single statements for drivers
// that reject multi-statement queries.
func splitStatements(script string) []string {
	var stmts []string
	for _, part := range strings.Split(script, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
