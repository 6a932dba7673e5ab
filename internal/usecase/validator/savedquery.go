package validator

import (
	"context"
	"strings"

	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

const maxQueryNameLength = 255

// Save validates req and stores its normalized form under name.
func (v *Validator) Save(ctx context.Context, name string, req requestv1.DataRequest, favorite bool) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxQueryNameLength {
		return 0, errors.NewBaseError(errors.NewErrorDetailsf(errors.ValidationError, "name",
			"query name must be 1 to %d characters", maxQueryNameLength))
	}

	normalized, _, err := v.Validate(req)
	if err != nil {
		return 0, err
	}

	id, err := v.savedQueries().Create(ctx, &requestv1.SavedQuery{
		Name:       name,
		Request:    normalized.ToDataRequest(),
		IsFavorite: favorite,
	})
	if err != nil {
		return 0, errors.TracerFromError(err)
	}

	v.logger.InfoContext(ctx, "Query saved", logger.NewField("id", id), logger.NewField("name", name))
	return id, nil
}

// Load returns the saved query and records one use of it.
func (v *Validator) Load(ctx context.Context, id int64) (*requestv1.SavedQuery, error) {
	query, err := v.savedQueries().Get(ctx, id)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}

	if err := v.savedQueries().Touch(ctx, id); err != nil {
		return nil, errors.TracerFromError(err)
	}

	now := v.now().UTC()
	query.UseCount++
	query.LastUsedAt = &now
	return query, nil
}

// Delete removes a saved query.
func (v *Validator) Delete(ctx context.Context, id int64) error {
	if err := v.savedQueries().Delete(ctx, id); err != nil {
		return errors.TracerFromError(err)
	}
	return nil
}

// List returns saved queries, favorites first.
func (v *Validator) List(ctx context.Context, favoritesOnly bool) ([]*requestv1.SavedQuery, error) {
	queries, err := v.savedQueries().List(ctx, favoritesOnly)
	if err != nil {
		return nil, errors.TracerFromError(err)
	}
	return queries, nil
}

// ToggleFavorite flips the favorite flag and returns the new value.
func (v *Validator) ToggleFavorite(ctx context.Context, id int64) (bool, error) {
	favorite, err := v.savedQueries().ToggleFavorite(ctx, id)
	if err != nil {
		return false, errors.TracerFromError(err)
	}
	return favorite, nil
}

func (v *Validator) savedQueries() requestv1.SavedQueryRepository {
	if v.queries == nil {
		return unavailableQueries{}
	}
	return v.queries
}

// unavailableQueries answers every call with an error when no store is configured.
type unavailableQueries struct{}

func (unavailableQueries) err() error {
	return errors.NewErrorDetails("saved query store is not configured", string(errors.GeneralRepositoryError), "")
}

func (u unavailableQueries) Create(context.Context, *requestv1.SavedQuery) (int64, error) {
	return 0, u.err()
}

func (u unavailableQueries) Get(context.Context, int64) (*requestv1.SavedQuery, error) {
	return nil, u.err()
}

func (u unavailableQueries) Touch(context.Context, int64) error { return u.err() }

func (u unavailableQueries) Delete(context.Context, int64) error { return u.err() }

func (u unavailableQueries) List(context.Context, bool) ([]*requestv1.SavedQuery, error) {
	return nil, u.err()
}

func (u unavailableQueries) ToggleFavorite(context.Context, int64) (bool, error) {
	return false, u.err()
}
