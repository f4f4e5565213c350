package rankings

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/swingrank/internal/contracts"
)

// Repository persists batch results as JSON blobs keyed by list name
// and scan date. Implements contracts.RankingRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new rankings repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Save upserts a batch result for a list and scan date.
func (r *Repository) Save(ctx context.Context, listName string, scanDate time.Time, batch *contracts.BatchResult) error {
	payload, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("failed to marshal batch result: %w", err)
	}

	query := `
		INSERT INTO swingrank.rankings (list_name, scan_date, payload, result_count, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (list_name, scan_date) DO UPDATE SET
			payload = EXCLUDED.payload,
			result_count = EXCLUDED.result_count,
			created_at = NOW()
	`

	_, err = r.pool.Exec(ctx, query, listName, scanDate, payload, len(batch.Results))
	if err != nil {
		return fmt.Errorf("failed to save rankings: %w", err)
	}

	return nil
}

// GetByDate retrieves the batch result for a list and scan date.
func (r *Repository) GetByDate(ctx context.Context, listName string, scanDate time.Time) (*contracts.BatchResult, error) {
	query := `
		SELECT payload FROM swingrank.rankings
		WHERE list_name = $1 AND scan_date = $2
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, listName, scanDate).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("no rankings found for list %q on %s", listName, scanDate.Format("2006-01-02"))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rankings: %w", err)
	}

	return unmarshalBatch(payload)
}

// GetLatest retrieves the most recent batch result for a list along
// with its scan date.
func (r *Repository) GetLatest(ctx context.Context, listName string) (*contracts.BatchResult, time.Time, error) {
	query := `
		SELECT scan_date, payload FROM swingrank.rankings
		WHERE list_name = $1
		ORDER BY scan_date DESC
		LIMIT 1
	`

	var scanDate time.Time
	var payload []byte
	err := r.pool.QueryRow(ctx, query, listName).Scan(&scanDate, &payload)
	if err == pgx.ErrNoRows {
		return nil, time.Time{}, fmt.Errorf("no rankings found for list %q", listName)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to get latest rankings: %w", err)
	}

	batch, err := unmarshalBatch(payload)
	if err != nil {
		return nil, time.Time{}, err
	}

	return batch, scanDate, nil
}

// ListDates returns the most recent scan dates for a list, newest first.
func (r *Repository) ListDates(ctx context.Context, listName string, limit int) ([]time.Time, error) {
	if limit <= 0 {
		limit = 30
	}

	query := `
		SELECT scan_date FROM swingrank.rankings
		WHERE list_name = $1
		ORDER BY scan_date DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, listName, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scan dates: %w", err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0, limit)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date row: %w", err)
		}
		dates = append(dates, d)
	}

	return dates, rows.Err()
}

func unmarshalBatch(payload []byte) (*contracts.BatchResult, error) {
	var batch contracts.BatchResult
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("failed to unmarshal batch result: %w", err)
	}
	return &batch, nil
}
