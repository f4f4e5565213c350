package bars

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/swingrank/internal/contracts"
)

// Repository stores fetched daily bars so a flaky upstream feed does
// not blank out a ticker that scored yesterday. Implements
// contracts.BarStore.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new bar repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// SaveDailyBars upserts a bar series for a ticker.
func (r *Repository) SaveDailyBars(ctx context.Context, ticker string, bars []contracts.Bar) error {
	if len(bars) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO swingrank.daily_bars (ticker, bar_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, bar_date) DO UPDATE SET
			open = EXCLUDED.open,
			high = EXCLUDED.high,
			low = EXCLUDED.low,
			close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(query, ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume)
	}

	results := tx.SendBatch(ctx, batch)
	for range bars {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to upsert bar for %s: %w", ticker, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close bar batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetDailyBars returns the stored bars for a ticker within a date
// range, ascending by date.
func (r *Repository) GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]contracts.Bar, error) {
	query := `
		SELECT bar_date, open, high, low, close, volume
		FROM swingrank.daily_bars
		WHERE ticker = $1 AND bar_date >= $2 AND bar_date <= $3
		ORDER BY bar_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars for %s: %w", ticker, err)
	}
	defer rows.Close()

	bars := make([]contracts.Bar, 0)
	for rows.Next() {
		var b contracts.Bar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan bar row: %w", err)
		}
		bars = append(bars, b)
	}

	return bars, rows.Err()
}
