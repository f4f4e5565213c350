package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/internal/scoring"
	"github.com/wonny/swingrank/pkg/config"
	"github.com/wonny/swingrank/pkg/logger"
	"github.com/wonny/swingrank/pkg/redis"
)

// Runner orchestrates one scoring run per scan list: load membership,
// fetch bars, score, persist. The engine itself stays pure; all I/O
// lives here.
type Runner struct {
	bars     contracts.BarProvider
	barStore contracts.BarStore
	profiles contracts.TickerInfoProvider
	lists    contracts.StockListRepository
	rankings contracts.RankingRepository
	engine   *scoring.Engine
	cache    *redis.Cache
	cfg      config.ScanConfig
	logger   *logger.Logger
}

// NewRunner creates a scan runner. barStore, profiles and cache may be
// nil.
func NewRunner(
	bars contracts.BarProvider,
	barStore contracts.BarStore,
	profiles contracts.TickerInfoProvider,
	lists contracts.StockListRepository,
	rankings contracts.RankingRepository,
	engine *scoring.Engine,
	cache *redis.Cache,
	cfg config.ScanConfig,
	log *logger.Logger,
) *Runner {
	return &Runner{
		bars:     bars,
		barStore: barStore,
		profiles: profiles,
		lists:    lists,
		rankings: rankings,
		engine:   engine,
		cache:    cache,
		cfg:      cfg,
		logger:   log,
	}
}

// RunAll scans every configured list. Per-list failures are logged
// and do not stop the remaining lists.
func (r *Runner) RunAll(ctx context.Context) error {
	var firstErr error
	for _, listName := range r.cfg.Lists {
		if _, err := r.RunList(ctx, listName); err != nil {
			r.logger.WithError(err).WithField("list", listName).Error("Scan failed for list")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// RunList scores one list and persists the ranked batch keyed by list
// name and US-Eastern scan date.
func (r *Runner) RunList(ctx context.Context, listName string) (*contracts.BatchResult, error) {
	started := time.Now()

	members, err := r.lists.GetMembers(ctx, listName)
	if err != nil {
		return nil, fmt.Errorf("load members for list %q: %w", listName, err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("list %q has no members", listName)
	}

	to := time.Now()
	from := to.AddDate(0, 0, -r.cfg.LookbackDays)

	benchBars, err := r.fetchBars(ctx, r.cfg.BenchmarkTicker, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch benchmark %s: %w", r.cfg.BenchmarkTicker, err)
	}

	input := scoring.RunInput{
		BenchmarkTicker: r.cfg.BenchmarkTicker,
		BenchmarkBars:   benchBars,
		Bars:            make(map[string][]contracts.Bar, len(members)),
		Info:            make(map[string]contracts.TickerInfo, len(members)),
	}

	for _, m := range members {
		input.Info[m.Ticker] = r.resolveInfo(ctx, m)

		bars, err := r.fetchBars(ctx, m.Ticker, from, to)
		if err != nil {
			// Fetch failures degrade to an insufficient-data record
			// instead of aborting the batch.
			r.logger.WithError(err).WithField("ticker", m.Ticker).Warn("Bar fetch failed")
			input.Bars[m.Ticker] = nil
			continue
		}
		input.Bars[m.Ticker] = bars
	}

	batch, err := r.engine.Run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("score list %q: %w", listName, err)
	}

	scanDate := easternDate(batch.ComputedAt)
	if err := r.rankings.Save(ctx, listName, scanDate, batch); err != nil {
		return nil, fmt.Errorf("persist rankings for list %q: %w", listName, err)
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, "rankings:"+listName, batch, 24*time.Hour); err != nil {
			r.logger.WithError(err).Warn("Failed to cache batch result")
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"list":      listName,
		"scan_date": scanDate.Format("2006-01-02"),
		"tickers":   len(members),
		"duration":  time.Since(started),
	}).Info("Scan completed")

	return batch, nil
}

// fetchBars fetches a bar series and keeps the store in sync. A fetch
// failure falls back to the last stored series so one upstream outage
// does not blank out a ticker that scored yesterday.
func (r *Runner) fetchBars(ctx context.Context, ticker string, from, to time.Time) ([]contracts.Bar, error) {
	bars, err := r.bars.FetchDailyBars(ctx, ticker, from, to)
	if err == nil {
		if r.barStore != nil {
			if saveErr := r.barStore.SaveDailyBars(ctx, ticker, bars); saveErr != nil {
				r.logger.WithError(saveErr).WithField("ticker", ticker).Warn("Failed to store bars")
			}
		}
		return bars, nil
	}

	if r.barStore == nil {
		return nil, err
	}

	stored, storeErr := r.barStore.GetDailyBars(ctx, ticker, from, to)
	if storeErr != nil || len(stored) == 0 {
		return nil, err
	}

	r.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(stored),
	}).Warn("Bar fetch failed, using stored history")

	return stored, nil
}

// resolveInfo fills missing display metadata from the profile
// scraper, best effort.
func (r *Runner) resolveInfo(ctx context.Context, m contracts.TickerInfo) contracts.TickerInfo {
	if r.profiles == nil || (m.Name != "" && m.Sector != "") {
		return m
	}

	fetched, err := r.profiles.FetchTickerInfo(ctx, m.Ticker)
	if err != nil {
		r.logger.WithError(err).WithField("ticker", m.Ticker).Debug("Profile fetch failed")
		return m
	}

	if m.Name == "" {
		m.Name = fetched.Name
	}
	if m.Sector == "" {
		m.Sector = fetched.Sector
	}
	if m.Industry == "" {
		m.Industry = fetched.Industry
	}
	return m
}

// easternDate truncates a timestamp to the US-Eastern trading date so
// results line up with the market session they describe.
func easternDate(t time.Time) time.Time {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
