package provider

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	providerv1 "github.com/muhammadchandra19/historical-data/internal/domain/provider/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/interval"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
)

const chartPath = "/v8/finance/chart/{symbol}"

// upstream interval names; 4h is fetched hourly and rolled up locally.
var upstreamIntervals = map[string]string{
	"1m":  "1m",
	"5m":  "5m",
	"15m": "15m",
	"30m": "30m",
	"1h":  "60m",
	"4h":  "60m",
	"1d":  "1d",
	"1w":  "1wk",
	"1M":  "1mo",
}

// Client fetches historical bars from the chart API.
type Client struct {
	http   *resty.Client
	logger logger.Interface
}

var _ providerv1.Provider = (*Client)(nil)

// NewClient creates a chart client.
func NewClient(cfg Config, log logger.Interface) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return resp.StatusCode() == http.StatusTooManyRequests || resp.StatusCode() >= http.StatusInternalServerError
		})

	return &Client{
		http:   httpClient,
		logger: log,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "chart"
}

// FetchBars requests one symbol's series and returns the rows in time order.
func (c *Client) FetchBars(ctx context.Context, req providerv1.Request) ([]providerv1.Row, error) {
	upstreamInterval, ok := upstreamIntervals[req.Interval]
	if !ok {
		return nil, errors.NewErrorDetailsf(errors.InvalidFrequencyError, "interval", "unsupported interval %q", req.Interval)
	}

	params := map[string]string{
		"interval":       upstreamInterval,
		"includePrePost": strconv.FormatBool(req.IncludeExtendedHours),
	}
	end := time.Now().UTC()
	if req.EndDate != nil {
		end = req.EndDate.UTC()
	}
	switch {
	case req.StartDate != nil:
		params["period1"] = strconv.FormatInt(req.StartDate.Unix(), 10)
		params["period2"] = strconv.FormatInt(end.Unix(), 10)
	case req.EndDate != nil:
		params["period1"] = strconv.FormatInt(end.AddDate(0, 0, -req.DaysBack).Unix(), 10)
		params["period2"] = strconv.FormatInt(end.Unix(), 10)
	default:
		params["range"] = fmt.Sprintf("%dd", req.DaysBack)
	}

	var body chartResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("symbol", req.Symbol).
		SetQueryParams(params).
		SetResult(&body).
		SetError(&body).
		Get(chartPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewErrorDetailsf(errors.UpstreamError, "symbol", "request for %s failed: %v", req.Symbol, err)
	}

	if body.Chart.Error != nil {
		return nil, errors.NewErrorDetailsf(errors.UpstreamError, "symbol", "upstream rejected %s: %s %s",
			req.Symbol, body.Chart.Error.Code, body.Chart.Error.Description)
	}
	if resp.IsError() {
		return nil, errors.NewErrorDetailsf(errors.UpstreamError, "symbol", "upstream returned %d for %s", resp.StatusCode(), req.Symbol)
	}

	rows, err := toRows(body)
	if err != nil {
		return nil, errors.NewErrorDetailsf(errors.UpstreamError, "symbol", "malformed response for %s: %v", req.Symbol, err)
	}

	if req.Interval == interval.Interval4h.Name {
		rows = rollup(rows, interval.Interval4h)
	}

	c.logger.DebugContext(ctx, "Fetched upstream rows",
		logger.NewField("symbol", req.Symbol),
		logger.NewField("interval", req.Interval),
		logger.NewField("rows", len(rows)),
	)

	return rows, nil
}

func toRows(body chartResponse) ([]providerv1.Row, error) {
	if len(body.Chart.Result) == 0 {
		return nil, nil
	}
	result := body.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, nil
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("missing quote indicators")
	}

	q := result.Indicators.Quote[0]
	rows := make([]providerv1.Row, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		rows[i] = providerv1.Row{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(q.Open, i),
			High:      at(q.High, i),
			Low:       at(q.Low, i),
			Close:     at(q.Close, i),
			Volume:    at(q.Volume, i),
		}
	}
	return rows, nil
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

// rollup merges complete rows into buckets of iv. Incomplete rows do not
// close the bucket in progress; they pass through unmerged after it so the
// caller can still report them as dropped.
func rollup(rows []providerv1.Row, iv interval.Interval) []providerv1.Row {
	out := make([]providerv1.Row, 0, len(rows)/4+1)
	var (
		current *providerv1.Row
		bucket  time.Time
		pending []providerv1.Row
	)
	flush := func() {
		if current != nil {
			out = append(out, *current)
			current = nil
		}
		out = append(out, pending...)
		pending = pending[:0]
	}

	for _, row := range rows {
		if !complete(row) {
			pending = append(pending, row)
			continue
		}

		start := iv.CalculateBucketTime(row.Timestamp)
		if current != nil && start.Equal(bucket) {
			high := max(*current.High, *row.High)
			low := min(*current.Low, *row.Low)
			volume := *current.Volume + *row.Volume
			closePrice := *row.Close
			current.High, current.Low, current.Volume, current.Close = &high, &low, &volume, &closePrice
			continue
		}

		flush()
		merged := row
		merged.Timestamp = start
		current, bucket = &merged, start
	}
	flush()
	return out
}

func complete(row providerv1.Row) bool {
	return row.Open != nil && row.High != nil && row.Low != nil && row.Close != nil && row.Volume != nil
}
