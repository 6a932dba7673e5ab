package validator

import (
	"fmt"
	"testing"
	"time"

	requestv1 "github.com/muhammadchandra19/historical-data/internal/domain/request/v1"
	"github.com/muhammadchandra19/historical-data/internal/usecase/cache"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(DefaultConfig(), nil, logger.NewNopLogger(), WithClock(func() time.Time { return testNow }))
}

func intPtr(v int) *int { return &v }

func TestValidator_Validate(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	est := time.FixedZone("EST", -5*3600)

	manySymbols := make([]string, 51)
	for i := range manySymbols {
		manySymbols[i] = fmt.Sprintf("S%d", i)
	}

	testCases := []struct {
		name     string
		req      requestv1.DataRequest
		assertFn func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error)
	}{
		{
			name: "success: symbols normalized and frequency alias resolved",
			req: requestv1.DataRequest{
				Symbols:   []string{" aapl", "MSFT", "AAPL ", "brk.b", "btc/usd", "$spx"},
				StartDate: &start,
				EndDate:   &end,
				Frequency: "daily",
			},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, []string{"AAPL", "MSFT", "BRK.B", "BTC/USD", "$SPX"}, n.Symbols)
				assert.Equal(t, "1d", n.Frequency)
				assert.Empty(t, warnings)
			},
		},
		{
			name: "success: dates converted to UTC",
			req: requestv1.DataRequest{
				Symbols:   []string{"ES"},
				StartDate: util.TimePointer(time.Date(2024, 1, 1, 19, 0, 0, 0, est)),
				Frequency: "1h",
			},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *n.StartDate)
				assert.Equal(t, time.UTC, n.StartDate.Location())
				assert.Nil(t, n.EndDate)
			},
		},
		{
			name: "success: future end clamped with warning",
			req: requestv1.DataRequest{
				Symbols:   []string{"AAPL"},
				StartDate: &start,
				EndDate:   util.TimePointer(testNow.Add(48 * time.Hour)),
				Frequency: "1d",
			},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), *n.EndDate)
				require.Len(t, warnings, 1)
				assert.Contains(t, warnings[0], "clamped to now")
			},
		},
		{
			name: "success: maxRecords above ceiling clamped with warning",
			req:  requestv1.DataRequest{Symbols: []string{"AAPL"}, Frequency: "1m", MaxRecords: intPtr(250000)},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.NoError(t, err)
				assert.Equal(t, 100000, *n.MaxRecords)
				require.Len(t, warnings, 1)
				assert.Contains(t, warnings[0], "clamped to 100000")
			},
		},
		{
			name: "error: every violation reported together",
			req: requestv1.DataRequest{
				Symbols:    []string{"AAPL", "bad symbol!", "WAYTOOLONGSYMBOLNAME123"},
				StartDate:  &end,
				EndDate:    &start,
				Frequency:  "2d",
				MaxRecords: intPtr(0),
			},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.Error(t, err)
				assert.Nil(t, n)
				assert.True(t, errors.IsValidation(err))

				var base *errors.BaseError
				require.ErrorAs(t, err, &base)
				assert.Len(t, base.GetDetails(), 5)
				assert.True(t, errors.HasCode(err, errors.InvalidSymbolError))
				assert.True(t, errors.HasCode(err, errors.InvalidFrequencyError))
				assert.True(t, errors.HasCode(err, errors.InvalidDateRangeError))
				assert.True(t, errors.HasCode(err, errors.InvalidMaxRecordsError))
			},
		},
		{
			name: "error: no symbols",
			req:  requestv1.DataRequest{Frequency: "1d"},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				assert.True(t, errors.HasCode(err, errors.EmptySymbolsError))
			},
		},
		{
			name: "error: too many symbols",
			req:  requestv1.DataRequest{Symbols: manySymbols, Frequency: "1d"},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				assert.True(t, errors.HasCode(err, errors.TooManySymbolsError))
			},
		},
		{
			name: "success: duplicates do not count toward the symbol limit",
			req:  requestv1.DataRequest{Symbols: append(manySymbols[:50:50], "s0", "S1"), Frequency: "1d"},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				require.NoError(t, err)
				assert.Len(t, n.Symbols, 50)
			},
		},
		{
			name: "error: future start date",
			req:  requestv1.DataRequest{Symbols: []string{"AAPL"}, StartDate: util.TimePointer(testNow.Add(time.Hour)), Frequency: "1d"},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				assert.True(t, errors.HasCode(err, errors.FutureStartDateError))
			},
		},
		{
			name: "error: range longer than the lookback limit",
			req: requestv1.DataRequest{
				Symbols:   []string{"AAPL"},
				StartDate: util.TimePointer(testNow.AddDate(-11, 0, 0)),
				Frequency: "1M",
			},
			assertFn: func(t *testing.T, n *requestv1.NormalizedRequest, warnings []string, err error) {
				assert.True(t, errors.HasCode(err, errors.DateRangeTooLongError))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, warnings, err := newTestValidator().Validate(tc.req)
			tc.assertFn(t, n, warnings, err)
		})
	}
}

func TestValidator_FutureEndStableWithinBucket(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	future := testNow.Add(24 * time.Hour)

	testCases := []struct {
		name      string
		frequency string
		req       requestv1.DataRequest
		assertFn  func(t *testing.T, first, second *requestv1.NormalizedRequest)
	}{
		{
			name:      "success: hourly end floored to the hour",
			frequency: "1h",
			req:       requestv1.DataRequest{Symbols: []string{"AAPL"}, StartDate: &start, EndDate: &future},
			assertFn: func(t *testing.T, first, second *requestv1.NormalizedRequest) {
				assert.Equal(t, time.Date(2024, 6, 3, 15, 0, 0, 0, time.UTC), *first.EndDate)
				assert.Equal(t, cache.RequestKey(*first), cache.RequestKey(*second))
			},
		},
		{
			name:      "success: daily end floored to midnight",
			frequency: "1d",
			req:       requestv1.DataRequest{Symbols: []string{"AAPL"}, StartDate: &start, EndDate: &future},
			assertFn: func(t *testing.T, first, second *requestv1.NormalizedRequest) {
				assert.Equal(t, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), *first.EndDate)
				assert.Equal(t, cache.RequestKey(*first), cache.RequestKey(*second))
			},
		},
		{
			name:      "success: start inside the current bucket keeps end at now",
			frequency: "1d",
			req: requestv1.DataRequest{
				Symbols:   []string{"AAPL"},
				StartDate: util.TimePointer(time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)),
				EndDate:   &future,
			},
			assertFn: func(t *testing.T, first, second *requestv1.NormalizedRequest) {
				assert.Equal(t, testNow, *first.EndDate)
				assert.True(t, first.StartDate.Before(*first.EndDate))
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			now := testNow
			v := NewValidator(DefaultConfig(), nil, logger.NewNopLogger(), WithClock(func() time.Time { return now }))

			req := tc.req
			req.Frequency = tc.frequency

			first, _, err := v.Validate(req)
			require.NoError(t, err)

			now = testNow.Add(30 * time.Second)
			second, _, err := v.Validate(req)
			require.NoError(t, err)

			tc.assertFn(t, first, second)
		})
	}
}

func TestValidator_ValidateDoesNotMutateInput(t *testing.T) {
	symbols := []string{"msft", "aapl"}
	_, _, err := newTestValidator().Validate(requestv1.DataRequest{Symbols: symbols, Frequency: "1d"})
	require.NoError(t, err)
	assert.Equal(t, []string{"msft", "aapl"}, symbols)
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		input    string
		expected time.Time
		wantErr  bool
	}{
		{input: "2024-01-05", expected: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{input: "2024-01-05T09:30:00", expected: time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)},
		{input: " 2024-01-05 09:30:00 ", expected: time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC)},
		{input: "2024-01-05T09:30:00-05:00", expected: time.Date(2024, 1, 5, 14, 30, 0, 0, time.UTC)},
		{input: "05/01/2024", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseDate(tc.input)
			if tc.wantErr {
				assert.True(t, errors.HasCode(err, errors.InvalidDateFormatError))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}
