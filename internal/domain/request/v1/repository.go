package v1

import (
	"context"
)

//go:generate mockgen -source=repository.go -destination=mock/repository_mock.go -package=mock

// SavedQueryRepository stores saved queries. Missing ids yield a
// saved_query_not_found error and name clashes a saved_query_duplicate_name error.
type SavedQueryRepository interface {
	Create(ctx context.Context, query *SavedQuery) (int64, error)
	Get(ctx context.Context, id int64) (*SavedQuery, error)
	// Touch increments use_count and sets last_used_at.
	Touch(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, favoritesOnly bool) ([]*SavedQuery, error)
	// ToggleFavorite flips the favorite flag and returns its new value.
	ToggleFavorite(ctx context.Context, id int64) (bool, error)
}
