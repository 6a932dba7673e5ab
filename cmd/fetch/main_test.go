package main

import (
	"testing"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/usecase/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	testCases := []struct {
		name     string
		opts     options
		assertFn func(t *testing.T, req requestv1.DataRequest, err error)
	}{
		{
			name: "all flags",
			opts: options{symbols: "AAPL,msft", start: "2024-01-01", end: "2024-01-05T16:00:00", frequency: "daily", extended: true, maxRecords: 3},
			assertFn: func(t *testing.T, req requestv1.DataRequest, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"AAPL", "msft"}, req.Symbols)
				assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *req.StartDate)
				assert.Equal(t, time.Date(2024, 1, 5, 16, 0, 0, 0, time.UTC), *req.EndDate)
				assert.True(t, req.IncludeExtendedHours)
				assert.Equal(t, 3, *req.MaxRecords)
			},
		},
		{
			name: "defaults leave optional fields unset",
			opts: options{symbols: "AAPL", frequency: "1h"},
			assertFn: func(t *testing.T, req requestv1.DataRequest, err error) {
				require.NoError(t, err)
				assert.Nil(t, req.StartDate)
				assert.Nil(t, req.EndDate)
				assert.Nil(t, req.MaxRecords)
			},
		},
		{
			name: "no symbols",
			opts: options{frequency: "1d"},
			assertFn: func(t *testing.T, req requestv1.DataRequest, err error) {
				require.NoError(t, err)
				assert.Empty(t, req.Symbols)
			},
		},
		{
			name: "bad date",
			opts: options{symbols: "AAPL", start: "01/02/2024"},
			assertFn: func(t *testing.T, req requestv1.DataRequest, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := buildRequest(tc.opts)
			tc.assertFn(t, req, err)
		})
	}
}

func TestToSeries(t *testing.T) {
	resp := &pipeline.HistoricalResponse{
		Request: requestv1.DataRequest{Frequency: "daily"},
		Results: []pipeline.SymbolResult{
			{Symbol: "MSFT", Source: barv1.SourceMock, Bars: []barv1.Bar{{Close: 1}}},
			{Symbol: "AAPL", Source: barv1.SourceUpstream},
		},
	}

	series := toSeries(resp)
	require.Len(t, series, 2)
	assert.Equal(t, "MSFT", series[0].Symbol)
	assert.Equal(t, "1d", series[0].Frequency)
	assert.Equal(t, barv1.SourceMock, series[0].Source)
	assert.Len(t, series[0].Bars, 1)
}
