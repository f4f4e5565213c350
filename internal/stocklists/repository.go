package stocklists

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/swingrank/internal/contracts"
)

// Repository manages scan list membership. Implements
// contracts.StockListRepository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new stock list repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetMembers returns the tickers of a list with display metadata,
// ordered by ticker.
func (r *Repository) GetMembers(ctx context.Context, listName string) ([]contracts.TickerInfo, error) {
	query := `
		SELECT ticker, COALESCE(name, ''), COALESCE(sector, ''), COALESCE(industry, '')
		FROM swingrank.list_members
		WHERE list_name = $1
		ORDER BY ticker
	`

	rows, err := r.pool.Query(ctx, query, listName)
	if err != nil {
		return nil, fmt.Errorf("failed to query list members: %w", err)
	}
	defer rows.Close()

	members := make([]contracts.TickerInfo, 0)
	for rows.Next() {
		var m contracts.TickerInfo
		if err := rows.Scan(&m.Ticker, &m.Name, &m.Sector, &m.Industry); err != nil {
			return nil, fmt.Errorf("failed to scan list member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// SaveMembers replaces the membership of a list.
func (r *Repository) SaveMembers(ctx context.Context, listName string, members []contracts.TickerInfo) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, "DELETE FROM swingrank.list_members WHERE list_name = $1", listName)
	if err != nil {
		return fmt.Errorf("failed to clear list members: %w", err)
	}

	query := `
		INSERT INTO swingrank.list_members (list_name, ticker, name, sector, industry)
		VALUES ($1, $2, $3, $4, $5)
	`

	for _, m := range members {
		if _, err := tx.Exec(ctx, query, listName, m.Ticker, m.Name, m.Sector, m.Industry); err != nil {
			return fmt.Errorf("failed to insert list member %s: %w", m.Ticker, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListNames returns all list names with at least one member.
func (r *Repository) ListNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT DISTINCT list_name FROM swingrank.list_members ORDER BY list_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query list names: %w", err)
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan list name: %w", err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}
