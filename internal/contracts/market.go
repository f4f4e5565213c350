package contracts

import (
	"context"
	"time"
)

// Bar represents one daily OHLCV bar for a single ticker.
// Bar series handed to the scoring engine must be sorted ascending by date.
// The engine treats bars as immutable input.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// TickerInfo carries display metadata merged into scored results.
// The engine never uses these fields computationally.
type TickerInfo struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// BarProvider supplies daily bars for a ticker over a date range,
// sorted ascending by date.
type BarProvider interface {
	FetchDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error)
}

// TickerInfoProvider supplies display metadata for a ticker.
type TickerInfoProvider interface {
	FetchTickerInfo(ctx context.Context, ticker string) (*TickerInfo, error)
}

// StockListRepository manages scan list membership.
type StockListRepository interface {
	GetMembers(ctx context.Context, listName string) ([]TickerInfo, error)
	SaveMembers(ctx context.Context, listName string, members []TickerInfo) error
	ListNames(ctx context.Context) ([]string, error)
}

// BarStore persists fetched bar series so scans can fall back to the
// last known history when the upstream feed fails.
type BarStore interface {
	SaveDailyBars(ctx context.Context, ticker string, bars []Bar) error
	GetDailyBars(ctx context.Context, ticker string, from, to time.Time) ([]Bar, error)
}

// RankingRepository persists batch results keyed by list name and scan date.
type RankingRepository interface {
	Save(ctx context.Context, listName string, scanDate time.Time, batch *BatchResult) error
	GetByDate(ctx context.Context, listName string, scanDate time.Time) (*BatchResult, error)
	GetLatest(ctx context.Context, listName string) (*BatchResult, time.Time, error)
	ListDates(ctx context.Context, listName string, limit int) ([]time.Time, error)
}
