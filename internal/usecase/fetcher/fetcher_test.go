package fetcher

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	providerv1 "github.com/muhammadchandra19/historical-data/internal/domain/provider/v1"
	mockProvider "github.com/muhammadchandra19/historical-data/internal/domain/provider/v1/mock"
	"github.com/muhammadchandra19/historical-data/pkg/circuitbreaker"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fp(v float64) *float64 { return &v }
func ip(v int64) *int64     { return &v }

func row(ts time.Time, o, h, l, c float64, v int64) providerv1.Row {
	return providerv1.Row{Timestamp: ts, Open: fp(o), High: fp(h), Low: fp(l), Close: fp(c), Volume: ip(v)}
}

var testNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func newTestFetcher(provider providerv1.Provider, breaker *circuitbreaker.Breaker, demo bool) *Fetcher {
	cfg := DefaultConfig()
	cfg.DemoMode = demo
	cfg.RateLimitInterval = 0
	return NewFetcher(provider, breaker, cfg, logger.NewNopLogger(), WithClock(func() time.Time { return testNow }))
}

func newTestBreaker(threshold int) *circuitbreaker.Breaker {
	cfg := circuitbreaker.DefaultConfig()
	cfg.FailureThreshold = threshold
	cfg.RequestTimeout = 5 * time.Second
	return circuitbreaker.New("historical-fetch", cfg, logger.NewNopLogger())
}

func TestFetcher_Fetch(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour
	two := 2

	testCases := []struct {
		name     string
		req      SymbolRequest
		demo     bool
		setup    func(b *circuitbreaker.Breaker)
		mockFn   func(p *mockProvider.MockProvider)
		assertFn func(t *testing.T, result *Result, err error)
	}{
		{
			name: "success: rows mapped, sorted and invalid rows dropped",
			req:  SymbolRequest{Symbol: "AAPL", StartDate: &start, EndDate: &end, Frequency: "daily"},
			mockFn: func(p *mockProvider.MockProvider) {
				p.EXPECT().FetchBars(gomock.Any(), providerv1.Request{
					Symbol: "AAPL", Interval: "1d", StartDate: &start, EndDate: &end,
				}).Return([]providerv1.Row{
					row(start.Add(day), 101, 103, 100, 102, 900),
					row(start, 100, 102, 99, 101, 1000),
					{Timestamp: start.Add(2 * day), Open: nil, High: fp(1), Low: fp(1), Close: fp(1), Volume: ip(1)},
					row(start.Add(3*day), 100, 99, 98, 100, 10),
				}, nil)
			},
			assertFn: func(t *testing.T, result *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, barv1.SourceUpstream, result.Source)
				require.Len(t, result.Bars, 2)
				assert.Equal(t, start, result.Bars[0].Timestamp)
				assert.Equal(t, start.Add(day), result.Bars[1].Timestamp)
			},
		},
		{
			name: "success: no start date sends a lookback and maxRecords keeps the latest",
			req:  SymbolRequest{Symbol: "MSFT", Frequency: "1h", MaxRecords: &two},
			mockFn: func(p *mockProvider.MockProvider) {
				p.EXPECT().FetchBars(gomock.Any(), providerv1.Request{
					Symbol: "MSFT", Interval: "1h", DaysBack: 60,
				}).Return([]providerv1.Row{
					row(start, 10, 11, 9, 10, 1),
					row(start.Add(time.Hour), 10, 11, 9, 10, 2),
					row(start.Add(2*time.Hour), 10, 11, 9, 10, 3),
				}, nil)
			},
			assertFn: func(t *testing.T, result *Result, err error) {
				require.NoError(t, err)
				require.Len(t, result.Bars, 2)
				assert.Equal(t, int64(2), result.Bars[0].Volume)
				assert.Equal(t, int64(3), result.Bars[1].Volume)
			},
		},
		{
			name:   "error: invalid frequency",
			req:    SymbolRequest{Symbol: "AAPL", Frequency: "2d"},
			mockFn: func(p *mockProvider.MockProvider) {},
			assertFn: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.HasCode(err, errors.InvalidFrequencyError))
				assert.Nil(t, result)
			},
		},
		{
			name: "error: upstream failure is returned",
			req:  SymbolRequest{Symbol: "AAPL", Frequency: "1d"},
			mockFn: func(p *mockProvider.MockProvider) {
				p.EXPECT().FetchBars(gomock.Any(), gomock.Any()).
					Return(nil, errors.NewErrorDetails("upstream returned 502", string(errors.UpstreamError), "symbol"))
			},
			assertFn: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.HasCode(err, errors.UpstreamError))
			},
		},
		{
			name:   "error: circuit open without demo mode",
			req:    SymbolRequest{Symbol: "AAPL", Frequency: "1d"},
			setup:  func(b *circuitbreaker.Breaker) { b.ForceOpen() },
			mockFn: func(p *mockProvider.MockProvider) {},
			assertFn: func(t *testing.T, result *Result, err error) {
				assert.True(t, errors.HasCode(err, errors.CircuitOpenError))
			},
		},
		{
			name:   "success: circuit open in demo mode serves generated bars",
			req:    SymbolRequest{Symbol: "AAPL", StartDate: &start, EndDate: &end, Frequency: "1d"},
			demo:   true,
			setup:  func(b *circuitbreaker.Breaker) { b.ForceOpen() },
			mockFn: func(p *mockProvider.MockProvider) {},
			assertFn: func(t *testing.T, result *Result, err error) {
				require.NoError(t, err)
				assert.Equal(t, barv1.SourceMock, result.Source)
				assert.GreaterOrEqual(t, len(result.Bars), 4)
				assert.LessOrEqual(t, len(result.Bars), 5)
				for _, b := range result.Bars {
					assert.Greater(t, b.Open, 0.0)
					assert.GreaterOrEqual(t, b.High, b.Open)
					assert.LessOrEqual(t, b.Low, b.Close)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			provider := mockProvider.NewMockProvider(ctrl)
			tc.mockFn(provider)

			breaker := newTestBreaker(5)
			if tc.setup != nil {
				tc.setup(breaker)
			}

			f := newTestFetcher(provider, breaker, tc.demo)
			result, err := f.Fetch(context.Background(), tc.req)
			tc.assertFn(t, result, err)
		})
	}
}

func TestFetcher_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mockProvider.NewMockProvider(ctrl)
	provider.EXPECT().FetchBars(gomock.Any(), gomock.Any()).
		Return(nil, stderrors.New("connection reset")).Times(3)

	breaker := newTestBreaker(3)
	f := newTestFetcher(provider, breaker, false)
	ctx := context.Background()

	for range 3 {
		_, err := f.FetchSymbol(ctx, SymbolRequest{Symbol: "AAPL", Frequency: "1d"})
		require.Error(t, err)
	}
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	_, err := f.FetchSymbol(ctx, SymbolRequest{Symbol: "AAPL", Frequency: "1d"})
	assert.True(t, errors.HasCode(err, errors.CircuitOpenError))
	assert.Equal(t, int64(3), f.APICalls())
}

func TestFetcher_RateLimitWaitDoesNotTripBreaker(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mockProvider.NewMockProvider(ctrl)
	provider.EXPECT().FetchBars(gomock.Any(), gomock.Any()).
		Return([]providerv1.Row{row(testNow.Add(-time.Hour), 10, 11, 9, 10, 100)}, nil).Times(3)

	breakerCfg := circuitbreaker.DefaultConfig()
	breakerCfg.FailureThreshold = 2
	breakerCfg.RequestTimeout = 100 * time.Millisecond
	breaker := circuitbreaker.New("historical-fetch", breakerCfg, logger.NewNopLogger())

	cfg := DefaultConfig()
	cfg.RateLimitInterval = 150 * time.Millisecond
	f := NewFetcher(provider, breaker, cfg, logger.NewNopLogger(), WithClock(func() time.Time { return testNow }))

	var wg sync.WaitGroup
	errs := make([]error, 3)
	for i := range 3 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.FetchSymbol(context.Background(), SymbolRequest{Symbol: "AAPL", Frequency: "1h"})
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, circuitbreaker.StateClosed, breaker.State())
	assert.Equal(t, int64(3), f.APICalls())
}

func TestFetcher_FetchMany(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	provider := mockProvider.NewMockProvider(ctrl)
	provider.EXPECT().FetchBars(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req providerv1.Request) ([]providerv1.Row, error) {
			if req.Symbol == "BAD" {
				return nil, errors.NewErrorDetails("no data", string(errors.UpstreamError), "symbol")
			}
			return []providerv1.Row{row(start, 10, 11, 9, 10, 100)}, nil
		}).Times(3)

	f := newTestFetcher(provider, newTestBreaker(5), false)

	var progress []string
	results, failures := f.FetchMany(context.Background(), ManyRequest{
		Symbols:   []string{"AAPL", "BAD", "MSFT"},
		Frequency: "1d",
	}, func(symbol string, completed, total int, err error) {
		assert.Equal(t, 3, total)
		progress = append(progress, symbol)
	})

	assert.Equal(t, []string{"AAPL", "BAD", "MSFT"}, progress)
	require.Len(t, results, 3)
	assert.Len(t, results["AAPL"].Bars, 1)
	assert.Len(t, results["MSFT"].Bars, 1)
	assert.Empty(t, results["BAD"].Bars)
	require.Len(t, failures, 1)
	assert.True(t, errors.HasCode(failures["BAD"], errors.UpstreamError))
}

func TestFetcher_FetchManyCanceled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	provider := mockProvider.NewMockProvider(ctrl)
	f := newTestFetcher(provider, newTestBreaker(5), false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, failures := f.FetchMany(ctx, ManyRequest{Symbols: []string{"AAPL", "MSFT"}, Frequency: "1d"}, nil)
	assert.Len(t, results, 2)
	assert.ErrorIs(t, failures["AAPL"], context.Canceled)
	assert.ErrorIs(t, failures["MSFT"], context.Canceled)
	assert.Equal(t, int64(0), f.APICalls())
}
