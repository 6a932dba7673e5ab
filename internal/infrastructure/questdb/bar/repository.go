package bar

import (
	"context"
	"fmt"
	"strings"
	"time"

	barv1 "github.com/muhammadchandra19/historical-data/internal/domain/bar/v1"
	"github.com/muhammadchandra19/historical-data/pkg/errors"
	"github.com/muhammadchandra19/historical-data/pkg/logger"
	"github.com/muhammadchandra19/historical-data/pkg/questdb"
)

const (
	insertColumns = "timestamp, symbol, frequency, source, open, high, low, close, volume, open_interest, contract_month"
	columnCount   = 11

	// insertChunkSize keeps each multi-row INSERT well below the PG wire parameter limit.
	insertChunkSize = 500
)

// Repository stores bars in QuestDB.
type Repository struct {
	client       questdb.QuestDBClient
	queryTimeout time.Duration
	logger       logger.Interface
}

var _ barv1.BarRepository = (*Repository)(nil)

// NewRepository creates a new bar repository.
func NewRepository(client questdb.QuestDBClient, queryTimeout time.Duration, logger logger.Interface) *Repository {
	return &Repository{
		client:       client,
		queryTimeout: queryTimeout,
		logger:       logger,
	}
}

// InsertBars inserts the bars not already stored for (symbol, frequency, source).
func (r *Repository) InsertBars(ctx context.Context, symbol, frequency string, source barv1.Source, bars []barv1.Bar) (int64, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	existing, err := r.existingTimestamps(ctx, symbol, frequency, source, bars)
	if err != nil {
		return 0, err
	}

	fresh := make([]barv1.Bar, 0, len(bars))
	seen := make(map[int64]struct{}, len(bars))
	for _, b := range bars {
		key := b.Timestamp.UnixMicro()
		if _, ok := existing[key]; ok {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, b)
	}

	var inserted int64
	for start := 0; start < len(fresh); start += insertChunkSize {
		end := min(start+insertChunkSize, len(fresh))
		query, args := buildInsert(symbol, frequency, source, fresh[start:end])
		if err := r.client.Exec(ctx, query, args...); err != nil {
			return inserted, errors.TracerFromError(fmt.Errorf("failed to insert bars: %w", err))
		}
		inserted += int64(end - start)
	}

	if skipped := len(bars) - len(fresh); skipped > 0 {
		r.logger.DebugContext(ctx, "Skipped duplicate bars",
			logger.NewField("symbol", symbol),
			logger.NewField("frequency", frequency),
			logger.NewField("skipped", skipped),
		)
	}

	return inserted, nil
}

func (r *Repository) existingTimestamps(ctx context.Context, symbol, frequency string, source barv1.Source, bars []barv1.Bar) (map[int64]struct{}, error) {
	from, to := bars[0].Timestamp, bars[0].Timestamp
	for _, b := range bars[1:] {
		if b.Timestamp.Before(from) {
			from = b.Timestamp
		}
		if b.Timestamp.After(to) {
			to = b.Timestamp
		}
	}

	query := fmt.Sprintf(`SELECT timestamp FROM %s
			  WHERE symbol = $1 AND frequency = $2 AND source = $3 AND timestamp >= $4 AND timestamp <= $5`, questdb.BarsTable)

	rows, err := r.client.Query(ctx, query, symbol, frequency, string(source), from.UTC(), to.UTC())
	if err != nil {
		return nil, errors.TracerFromError(fmt.Errorf("failed to query existing bars: %w", err))
	}
	defer rows.Close()

	existing := make(map[int64]struct{})
	for rows.Next() {
		var ts time.Time
		if err := rows.Scan(&ts); err != nil {
			return nil, errors.TracerFromError(fmt.Errorf("failed to scan bar timestamp: %w", err))
		}
		existing[ts.UnixMicro()] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(fmt.Errorf("error iterating rows: %w", err))
	}

	return existing, nil
}

func buildInsert(symbol, frequency string, source barv1.Source, bars []barv1.Bar) (string, []any) {
	var sb strings.Builder
	args := make([]any, 0, len(bars)*columnCount)

	fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", questdb.BarsTable, insertColumns)
	for i, b := range bars {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for c := 0; c < columnCount; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "$%d", i*columnCount+c+1)
		}
		sb.WriteByte(')')

		var contractMonth *string
		if b.ContractMonth != "" {
			contractMonth = &b.ContractMonth
		}
		args = append(args,
			b.Timestamp.UTC(), symbol, frequency, string(source),
			b.Open, b.High, b.Low, b.Close, b.Volume,
			b.OpenInterest, contractMonth,
		)
	}

	return sb.String(), args
}

// QueryBars returns bars in [start, end]. Upstream rows win over mock rows at the same timestamp.
func (r *Repository) QueryBars(ctx context.Context, symbol, frequency string, start, end time.Time) ([]barv1.Bar, error) {
	if r.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.queryTimeout)
		defer cancel()
	}

	query := fmt.Sprintf(`SELECT timestamp, source, open, high, low, close, volume, open_interest, contract_month
			  FROM %s
			  WHERE symbol = $1 AND frequency = $2 AND timestamp >= $3 AND timestamp <= $4
			  ORDER BY timestamp ASC, source DESC`, questdb.BarsTable)

	rows, err := r.client.Query(ctx, query, symbol, frequency, start.UTC(), end.UTC())
	if err != nil {
		return nil, errors.TracerFromError(fmt.Errorf("failed to query bars: %w", err))
	}
	defer rows.Close()

	var (
		bars []barv1.Bar
		last time.Time
	)
	for rows.Next() {
		var (
			b             barv1.Bar
			source        string
			contractMonth *string
		)
		if err := rows.Scan(&b.Timestamp, &source, &b.Open, &b.High, &b.Low, &b.Close,
			&b.Volume, &b.OpenInterest, &contractMonth); err != nil {
			return nil, errors.TracerFromError(fmt.Errorf("failed to scan bar: %w", err))
		}
		if len(bars) > 0 && b.Timestamp.Equal(last) {
			continue
		}
		if contractMonth != nil {
			b.ContractMonth = *contractMonth
		}
		b.Timestamp = b.Timestamp.UTC()
		last = b.Timestamp
		bars = append(bars, b)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.TracerFromError(fmt.Errorf("error iterating rows: %w", err))
	}

	return bars, nil
}
