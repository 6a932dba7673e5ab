package questdb

import (
	"context"

	"github.com/jackc/pgx/v5"
)

//go:generate mockgen -source=interface.go -destination=mock/interface_mock.go -package=mock

// RowsInterface is the subset of pgx.Rows the repositories iterate with.
type RowsInterface interface {
	Next() bool
	Scan(dest ...any) error
	Close()
	Err() error
}

// QuestDBClient talks to QuestDB over its PostgreSQL wire endpoint.
// QuestDB has no multi-statement transactions there, so writes go straight to
// the pool and deduplication is left to the table's DEDUP UPSERT KEYS.
type QuestDBClient interface {
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (RowsInterface, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	Ping(ctx context.Context) error
	Close()
}
