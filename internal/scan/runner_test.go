package scan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/internal/scoring"
	"github.com/wonny/swingrank/pkg/config"
	"github.com/wonny/swingrank/pkg/logger"
)

type fakeBarProvider struct {
	series map[string][]contracts.Bar
	errs   map[string]error
}

func (f *fakeBarProvider) FetchDailyBars(_ context.Context, ticker string, _, _ time.Time) ([]contracts.Bar, error) {
	if err, ok := f.errs[ticker]; ok {
		return nil, err
	}
	return f.series[ticker], nil
}

type fakeListRepo struct {
	members map[string][]contracts.TickerInfo
}

func (f *fakeListRepo) GetMembers(_ context.Context, listName string) ([]contracts.TickerInfo, error) {
	return f.members[listName], nil
}

func (f *fakeListRepo) SaveMembers(_ context.Context, listName string, members []contracts.TickerInfo) error {
	f.members[listName] = members
	return nil
}

func (f *fakeListRepo) ListNames(_ context.Context) ([]string, error) {
	names := make([]string, 0, len(f.members))
	for name := range f.members {
		names = append(names, name)
	}
	return names, nil
}

type fakeRankingRepo struct {
	saved map[string]*contracts.BatchResult
	dates map[string]time.Time
}

func (f *fakeRankingRepo) Save(_ context.Context, listName string, scanDate time.Time, batch *contracts.BatchResult) error {
	f.saved[listName] = batch
	f.dates[listName] = scanDate
	return nil
}

func (f *fakeRankingRepo) GetByDate(_ context.Context, listName string, _ time.Time) (*contracts.BatchResult, error) {
	return f.saved[listName], nil
}

func (f *fakeRankingRepo) GetLatest(_ context.Context, listName string) (*contracts.BatchResult, time.Time, error) {
	return f.saved[listName], f.dates[listName], nil
}

func (f *fakeRankingRepo) ListDates(_ context.Context, listName string, _ int) ([]time.Time, error) {
	return []time.Time{f.dates[listName]}, nil
}

func testBars(n int, start, step float64) []contracts.Bar {
	bars := make([]contracts.Bar, n)
	day := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := start + step*float64(i)
		bars[i] = contracts.Bar{
			Date: day.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func testScanConfig() config.ScanConfig {
	return config.ScanConfig{
		BenchmarkTicker: "SPY",
		Lists:           []string{"leading_stocks"},
		LookbackDays:    180,
		Workers:         2,
	}
}

func newTestRunner(bars *fakeBarProvider, lists *fakeListRepo, rankings *fakeRankingRepo) *Runner {
	log := logger.NewNop()
	engine := scoring.NewEngine(scoring.DefaultWeights(), 2, log)
	return NewRunner(bars, nil, nil, lists, rankings, engine, nil, testScanConfig(), log)
}

func TestRunList_PersistsRankedBatch(t *testing.T) {
	bars := &fakeBarProvider{series: map[string][]contracts.Bar{
		"SPY":  testBars(100, 400, 0.2),
		"AAPL": testBars(100, 150, 0.8),
		"XOM":  testBars(100, 110, -0.1),
	}}
	lists := &fakeListRepo{members: map[string][]contracts.TickerInfo{
		"leading_stocks": {
			{Ticker: "AAPL", Name: "Apple Inc.", Sector: "Technology"},
			{Ticker: "XOM", Name: "Exxon Mobil", Sector: "Energy"},
		},
	}}
	rankings := &fakeRankingRepo{
		saved: map[string]*contracts.BatchResult{},
		dates: map[string]time.Time{},
	}

	runner := newTestRunner(bars, lists, rankings)

	batch, err := runner.RunList(context.Background(), "leading_stocks")
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	assert.Equal(t, "AAPL", batch.Results[0].Ticker)
	assert.Equal(t, 1, batch.Results[0].Rank)
	assert.Equal(t, "Apple Inc.", batch.Results[0].Name)

	// Persisted batch matches what was returned.
	require.Contains(t, rankings.saved, "leading_stocks")
	assert.Equal(t, batch, rankings.saved["leading_stocks"])

	// Scan date is a midnight-UTC trading date.
	scanDate := rankings.dates["leading_stocks"]
	assert.Equal(t, 0, scanDate.Hour())
	assert.Equal(t, time.UTC, scanDate.Location())
}

func TestRunList_FetchFailureDegradesToErrorRecord(t *testing.T) {
	bars := &fakeBarProvider{
		series: map[string][]contracts.Bar{
			"SPY":  testBars(100, 400, 0.2),
			"AAPL": testBars(100, 150, 0.8),
		},
		errs: map[string]error{
			"DOWN": errors.New("connection refused"),
		},
	}
	lists := &fakeListRepo{members: map[string][]contracts.TickerInfo{
		"leading_stocks": {{Ticker: "AAPL"}, {Ticker: "DOWN"}},
	}}
	rankings := &fakeRankingRepo{
		saved: map[string]*contracts.BatchResult{},
		dates: map[string]time.Time{},
	}

	runner := newTestRunner(bars, lists, rankings)

	batch, err := runner.RunList(context.Background(), "leading_stocks")
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	down, ok := batch.Get("DOWN")
	require.True(t, ok)
	assert.NotEmpty(t, down.Error)
	assert.Equal(t, 2, down.Rank)
}

type fakeBarStore struct {
	stored map[string][]contracts.Bar
	saved  map[string]int
}

func (f *fakeBarStore) SaveDailyBars(_ context.Context, ticker string, bars []contracts.Bar) error {
	f.stored[ticker] = bars
	f.saved[ticker] += len(bars)
	return nil
}

func (f *fakeBarStore) GetDailyBars(_ context.Context, ticker string, _, _ time.Time) ([]contracts.Bar, error) {
	return f.stored[ticker], nil
}

func TestRunList_FallsBackToStoredBars(t *testing.T) {
	store := &fakeBarStore{
		stored: map[string][]contracts.Bar{
			"FLAKY": testBars(100, 90, 0.3),
		},
		saved: map[string]int{},
	}
	bars := &fakeBarProvider{
		series: map[string][]contracts.Bar{
			"SPY":  testBars(100, 400, 0.2),
			"AAPL": testBars(100, 150, 0.8),
		},
		errs: map[string]error{
			"FLAKY": errors.New("connection refused"),
		},
	}
	lists := &fakeListRepo{members: map[string][]contracts.TickerInfo{
		"leading_stocks": {{Ticker: "AAPL"}, {Ticker: "FLAKY"}},
	}}
	rankings := &fakeRankingRepo{
		saved: map[string]*contracts.BatchResult{},
		dates: map[string]time.Time{},
	}

	log := logger.NewNop()
	engine := scoring.NewEngine(scoring.DefaultWeights(), 2, log)
	runner := NewRunner(bars, store, nil, lists, rankings, engine, nil, testScanConfig(), log)

	batch, err := runner.RunList(context.Background(), "leading_stocks")
	require.NoError(t, err)

	// FLAKY scored from the stored series instead of failing.
	flaky, ok := batch.Get("FLAKY")
	require.True(t, ok)
	assert.Empty(t, flaky.Error)
	assert.Greater(t, flaky.FinalScore, 0.0)

	// Successful fetches are written back to the store.
	assert.Equal(t, 100, store.saved["AAPL"])
	assert.Equal(t, 0, store.saved["FLAKY"])
}

func TestRunList_BenchmarkFailureAborts(t *testing.T) {
	bars := &fakeBarProvider{series: map[string][]contracts.Bar{
		"SPY":  testBars(30, 400, 0.2), // too short to score
		"AAPL": testBars(100, 150, 0.8),
	}}
	lists := &fakeListRepo{members: map[string][]contracts.TickerInfo{
		"leading_stocks": {{Ticker: "AAPL"}},
	}}
	rankings := &fakeRankingRepo{
		saved: map[string]*contracts.BatchResult{},
		dates: map[string]time.Time{},
	}

	runner := newTestRunner(bars, lists, rankings)

	_, err := runner.RunList(context.Background(), "leading_stocks")
	require.Error(t, err)
	assert.ErrorIs(t, err, scoring.ErrBenchmarkData)
	assert.Empty(t, rankings.saved, "nothing persisted on benchmark failure")
}

func TestRunList_EmptyList(t *testing.T) {
	runner := newTestRunner(
		&fakeBarProvider{},
		&fakeListRepo{members: map[string][]contracts.TickerInfo{}},
		&fakeRankingRepo{saved: map[string]*contracts.BatchResult{}, dates: map[string]time.Time{}},
	)

	_, err := runner.RunList(context.Background(), "leading_stocks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no members")
}
