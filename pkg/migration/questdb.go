package migration

import (
	"context"

	"github.com/muhammadchandra19/historical-data/pkg/questdb"
)

// QuestDBExecutor records applied migrations in a QuestDB table.
// QuestDB has no transactional DDL so each statement runs on its own.
type QuestDBExecutor struct {
	client questdb.QuestDBClient
}

// NewQuestDBExecutor creates a new QuestDB executor.
func NewQuestDBExecutor(client questdb.QuestDBClient) *QuestDBExecutor {
	return &QuestDBExecutor{client: client}
}

// EnsureTable creates the schema_migrations table if it doesn't exist
func (e *QuestDBExecutor) EnsureTable(ctx context.Context) error {
	return e.client.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SYMBOL,
			name STRING,
			applied_at TIMESTAMP
		) TIMESTAMP(applied_at) PARTITION BY YEAR;
	`)
}

// Applied returns the set of applied migration IDs.
func (e *QuestDBExecutor) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := e.client.Query(ctx, "SELECT id FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		applied[id] = true
	}
	return applied, rows.Err()
}

// Apply runs the UP script and records it.
func (e *QuestDBExecutor) Apply(ctx context.Context, m Migration) error {
	for _, stmt := range splitStatements(m.UpSQL) {
		if err := e.client.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return e.client.Exec(ctx, "INSERT INTO schema_migrations VALUES ($1, $2, now())", m.ID, m.Name)
}

// Revert runs the DOWN script and removes the record.
func (e *QuestDBExecutor) Revert(ctx context.Context, m Migration) error {
	for _, stmt := range splitStatements(m.DownSQL) {
		if err := e.client.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return e.client.Exec(ctx, "DELETE FROM schema_migrations WHERE id = $1", m.ID)
}
