// Package migrations embeds the SQL migrations for the bar store and the saved-query store.
package migrations

import "embed"

// FS holds questdb/*.sql and postgres/*.sql.
//
//go:embed questdb/*.sql postgres/*.sql
var FS embed.FS

const (
	// QuestDBDir is the directory of QuestDB migrations inside FS.
	QuestDBDir = "questdb"
	// PostgresDir is the directory of PostgreSQL migrations inside FS.
	PostgresDir = "postgres"
)
