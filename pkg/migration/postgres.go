package migration

import (
	"context"
	"fmt"

	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
)

// PostgresExecutor applies each migration inside a single transaction.
type PostgresExecutor struct {
	client    postgresql.PostgreSQLClient
	schema    string
	tableName string
}

// NewPostgresExecutor creates a PostgreSQL executor. Empty schema and table
// fall back to public.schema_migrations.
func NewPostgresExecutor(client postgresql.PostgreSQLClient, schema, tableName string) *PostgresExecutor {
	if schema == "" {
		schema = "public"
	}
	if tableName == "" {
		tableName = "schema_migrations"
	}
	return &PostgresExecutor{client: client, schema: schema, tableName: tableName}
}

func (e *PostgresExecutor) table() string {
	return fmt.Sprintf("%s.%s", e.schema, e.tableName)
}

// EnsureTable creates the migrations table if it doesn't exist
func (e *PostgresExecutor) EnsureTable(ctx context.Context) error {
	_, err := e.client.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id VARCHAR(255) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
	`, e.table()))
	return err
}

// Applied returns the set of applied migration IDs.
func (e *PostgresExecutor) Applied(ctx context.Context) (map[string]bool, error) {
	rows, err := e.client.Query(ctx, fmt.Sprintf("SELECT id FROM %s ORDER BY applied_at", e.table()))
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

// Apply runs the UP script and records it in the same transaction.
func (e *PostgresExecutor) Apply(ctx context.Context, m Migration) error {
	return postgresql.WithTx(ctx, e.client, func(ctx context.Context) error {
		if _, err := e.client.Exec(ctx, m.UpSQL); err != nil {
			return err
		}
		_, err := e.client.Exec(ctx,
			fmt.Sprintf("INSERT INTO %s (id, name) VALUES ($1, $2)", e.table()),
			m.ID, m.Name,
		)
		return err
	})
}

// Revert runs the DOWN script and removes the record in the same transaction.
func (e *PostgresExecutor) Revert(ctx context.Context, m Migration) error {
	return postgresql.WithTx(ctx, e.client, func(ctx context.Context) error {
		if _, err := e.client.Exec(ctx, m.DownSQL); err != nil {
			return err
		}
		_, err := e.client.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", e.table()), m.ID)
		return err
	})
}
