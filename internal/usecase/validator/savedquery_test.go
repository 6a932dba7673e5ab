package validator

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	mockRequest "github.com/muhammadchandra19/historical-data/internal/domain/request/v1/mock"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Save(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		req      requestv1.DataRequest
		mockFn   func(repo *mockRequest.MockSavedQueryRepository)
		assertFn func(t *testing.T, id int64, err error)
	}{
		{
			name:  "success: normalized request stored",
			query: "  tech daily ",
			req:   requestv1.DataRequest{Symbols: []string{"msft", "aapl"}, Frequency: "daily"},
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {
				repo.EXPECT().Create(gomock.Any(), &requestv1.SavedQuery{
					Name:       "tech daily",
					Request:    requestv1.DataRequest{Symbols: []string{"MSFT", "AAPL"}, Frequency: "1d"},
					IsFavorite: true,
				}).Return(int64(12), nil)
			},
			assertFn: func(t *testing.T, id int64, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(12), id)
			},
		},
		{
			name:   "error: empty name",
			query:  "   ",
			req:    requestv1.DataRequest{Symbols: []string{"AAPL"}, Frequency: "1d"},
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {},
			assertFn: func(t *testing.T, id int64, err error) {
				assert.True(t, errors.IsValidation(err))
			},
		},
		{
			name:   "error: invalid request is not stored",
			query:  "broken",
			req:    requestv1.DataRequest{Frequency: "1d"},
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {},
			assertFn: func(t *testing.T, id int64, err error) {
				assert.True(t, errors.HasCode(err, errors.EmptySymbolsError))
			},
		},
		{
			name:  "error: duplicate name",
			query: "tech",
			req:   requestv1.DataRequest{Symbols: []string{"AAPL"}, Frequency: "1d"},
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {
				repo.EXPECT().Create(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.NewErrorDetails(`saved query "tech" already exists`, string(errors.SavedQueryDuplicateError), "name"))
			},
			assertFn: func(t *testing.T, id int64, err error) {
				assert.True(t, errors.HasCode(err, errors.SavedQueryDuplicateError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mockRequest.NewMockSavedQueryRepository(ctrl)
			tc.mockFn(repo)

			v := NewValidator(DefaultConfig(), repo, logger.NewNopLogger(), WithClock(func() time.Time { return testNow }))
			id, err := v.Save(context.Background(), tc.query, tc.req, true)
			tc.assertFn(t, id, err)
		})
	}
}

func TestValidator_Load(t *testing.T) {
	stored := func() *requestv1.SavedQuery {
		return &requestv1.SavedQuery{
			ID:       3,
			Name:     "tech",
			Request:  requestv1.DataRequest{Symbols: []string{"AAPL"}, Frequency: "1d"},
			UseCount: 4,
		}
	}

	testCases := []struct {
		name     string
		mockFn   func(repo *mockRequest.MockSavedQueryRepository)
		assertFn func(t *testing.T, q *requestv1.SavedQuery, err error)
	}{
		{
			name: "success: use recorded",
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {
				repo.EXPECT().Get(gomock.Any(), int64(3)).Return(stored(), nil)
				repo.EXPECT().Touch(gomock.Any(), int64(3)).Return(nil)
			},
			assertFn: func(t *testing.T, q *requestv1.SavedQuery, err error) {
				require.NoError(t, err)
				assert.Equal(t, int64(5), q.UseCount)
				assert.Equal(t, testNow, *q.LastUsedAt)
			},
		},
		{
			name: "error: not found",
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {
				repo.EXPECT().Get(gomock.Any(), int64(3)).
					Return(nil, errors.NewErrorDetails("saved query 3 not found", string(errors.SavedQueryNotFoundError), "id"))
			},
			assertFn: func(t *testing.T, q *requestv1.SavedQuery, err error) {
				assert.True(t, errors.HasCode(err, errors.SavedQueryNotFoundError))
				assert.Nil(t, q)
			},
		},
		{
			name: "error: touch fails",
			mockFn: func(repo *mockRequest.MockSavedQueryRepository) {
				repo.EXPECT().Get(gomock.Any(), int64(3)).Return(stored(), nil)
				repo.EXPECT().Touch(gomock.Any(), int64(3)).Return(stderrors.New("connection reset"))
			},
			assertFn: func(t *testing.T, q *requestv1.SavedQuery, err error) {
				assert.ErrorContains(t, err, "connection reset")
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mockRequest.NewMockSavedQueryRepository(ctrl)
			tc.mockFn(repo)

			v := NewValidator(DefaultConfig(), repo, logger.NewNopLogger(), WithClock(func() time.Time { return testNow }))
			q, err := v.Load(context.Background(), 3)
			tc.assertFn(t, q, err)
		})
	}
}

func TestValidator_DeleteListToggle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mockRequest.NewMockSavedQueryRepository(ctrl)
	v := NewValidator(DefaultConfig(), repo, logger.NewNopLogger())
	ctx := context.Background()

	repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(nil)
	require.NoError(t, v.Delete(ctx, 1))

	repo.EXPECT().List(gomock.Any(), true).Return([]*requestv1.SavedQuery{{ID: 2, IsFavorite: true}}, nil)
	queries, err := v.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, queries, 1)

	repo.EXPECT().ToggleFavorite(gomock.Any(), int64(2)).Return(false, nil)
	favorite, err := v.ToggleFavorite(ctx, 2)
	require.NoError(t, err)
	assert.False(t, favorite)
}

func TestValidator_NoStoreConfigured(t *testing.T) {
	v := NewValidator(DefaultConfig(), nil, logger.NewNopLogger())

	_, err := v.Load(context.Background(), 1)
	assert.True(t, errors.HasCode(err, errors.GeneralRepositoryError))

	_, err = v.List(context.Background(), false)
	assert.True(t, errors.HasCode(err, errors.GeneralRepositoryError))
}
