package savedquery

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/postgresql"
)

const selectColumns = "id, name, request, is_favorite, use_count, created_at, last_used_at"

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ requestv1.SavedQueryRepository = (*repository)(nil)

// NewRepository creates a new saved-query repository.
func NewRepository(db postgresql.PostgreSQLClient, logger logger.Interface) requestv1.SavedQueryRepository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

func notFound(id int64) error {
	return errors.NewErrorDetailsf(errors.SavedQueryNotFoundError, "id", "saved query %d not found", id)
}

// Create stores a new saved query and returns its id.
func (r *repository) Create(ctx context.Context, query *requestv1.SavedQuery) (int64, error) {
	payload, err := json.Marshal(query.Request)
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	var id int64
	err = r.db.QueryRow(ctx,
		`INSERT INTO saved_queries (name, request, is_favorite) VALUES ($1, $2, $3) RETURNING id`,
		query.Name, payload, query.IsFavorite,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == postgresql.UniqueViolation {
			return 0, errors.NewErrorDetailsf(errors.SavedQueryDuplicateError, "name", "saved query %q already exists", query.Name)
		}
		return 0, errors.TracerFromError(err)
	}

	r.logger.InfoContext(ctx, "Saved query created",
		logger.NewField("id", id),
		logger.NewField("name", query.Name),
	)

	return id, nil
}

// Get returns the saved query with the given id.
func (r *repository) Get(ctx context.Context, id int64) (*requestv1.SavedQuery, error) {
	query := fmt.Sprintf("SELECT %s FROM saved_queries WHERE id = $1", selectColumns)

	sq, err := scanSavedQuery(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, notFound(id)
		}
		return nil, errors.TracerFromError(err)
	}
	return sq, nil
}

// Touch records one use of the saved query.
func (r *repository) Touch(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx,
		`UPDATE saved_queries SET use_count = use_count + 1, last_used_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if cmd.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// Delete removes the saved query.
func (r *repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM saved_queries WHERE id = $1`, id)
	if err != nil {
		return errors.TracerFromError(err)
	}
	if cmd.RowsAffected() == 0 {
		return notFound(id)
	}
	return nil
}

// List returns saved queries, favorites first then most recently used.
func (r *repository) List(ctx context.Context, favoritesOnly bool) ([]*requestv1.SavedQuery, error) {
	query := fmt.Sprintf("SELECT %s FROM saved_queries", selectColumns)
	if favoritesOnly {
		query += " WHERE is_favorite = TRUE"
	}
	query += " ORDER BY is_favorite DESC, last_used_at DESC NULLS LAST, name ASC"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	defer rows.Close()

	var queries []*requestv1.SavedQuery
	for rows.Next() {
		sq, err := scanSavedQuery(rows)
		if err != nil {
			return nil, errors.TracerFromError(err)
		}
		queries = append(queries, sq)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(err)
	}

	return queries, nil
}

// ToggleFavorite flips is_favorite and returns the new value.
func (r *repository) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	var favorite bool
	err := r.db.QueryRow(ctx,
		`UPDATE saved_queries SET is_favorite = NOT is_favorite WHERE id = $1 RETURNING is_favorite`, id,
	).Scan(&favorite)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return false, notFound(id)
		}
		return false, errors.TracerFromError(err)
	}
	return favorite, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSavedQuery(row scanner) (*requestv1.SavedQuery, error) {
	var (
		sq         requestv1.SavedQuery
		payload    []byte
		lastUsedAt *time.Time
	)
	if err := row.Scan(&sq.ID, &sq.Name, &payload, &sq.IsFavorite, &sq.UseCount, &sq.CreatedAt, &lastUsedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &sq.Request); err != nil {
		return nil, fmt.Errorf("failed to decode saved query %d: %w", sq.ID, err)
	}
	sq.LastUsedAt = lastUsedAt
	return &sq, nil
}
