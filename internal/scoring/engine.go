package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/pkg/logger"
)

// ErrBenchmarkData reports an unusable benchmark series. Fatal for
// the whole batch: no partial results are returned.
var ErrBenchmarkData = errors.New("benchmark data unavailable or insufficient")

// Weights defines the sub-score weights for the composite final score.
type Weights struct {
	RelStrength float64
	Trend       float64
	Pullback    float64
	Volatility  float64
}

// DefaultWeights returns the standard swing-trade weighting.
func DefaultWeights() Weights {
	return Weights{
		RelStrength: 0.40,
		Trend:       0.25,
		Pullback:    0.20,
		Volatility:  0.15,
	}
}

// Validate checks that weights sum to 1.0 within floating point error.
func (w Weights) Validate() bool {
	sum := w.RelStrength + w.Trend + w.Pullback + w.Volatility
	return sum >= 0.99 && sum <= 1.01
}

// RunInput carries everything one scoring run needs: the benchmark
// series plus a bar series per ticker, all ascending by date, and
// optional display metadata merged into the output.
type RunInput struct {
	BenchmarkTicker string
	BenchmarkBars   []contracts.Bar
	Bars            map[string][]contracts.Bar
	Info            map[string]contracts.TickerInfo
}

// Engine turns raw bar series into a ranked, sub-scored batch result.
// Stateless per invocation; a single Engine is safe for concurrent runs.
type Engine struct {
	weights Weights
	workers int
	logger  *logger.Logger
}

// NewEngine creates a scoring engine. workers bounds the indicator
// worker pool; values below 1 fall back to 4.
func NewEngine(weights Weights, workers int, log *logger.Logger) *Engine {
	if workers < 1 {
		workers = 4
	}
	return &Engine{
		weights: weights,
		workers: workers,
		logger:  log,
	}
}

// indicatorOutcome is the per-ticker result of the indicator phase.
type indicatorOutcome struct {
	set *contracts.IndicatorSet
	err error
}

// Run scores and ranks every ticker in the input. Per-ticker failures
// degrade that ticker to a zero-score error record; a benchmark
// failure aborts the batch with ErrBenchmarkData.
func (e *Engine) Run(ctx context.Context, in RunInput) (*contracts.BatchResult, error) {
	bench, err := ComputeIndicators(in.BenchmarkTicker, in.BenchmarkBars)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBenchmarkData, in.BenchmarkTicker, err)
	}
	if bench.Return1M == nil || bench.Return3M == nil {
		return nil, fmt.Errorf("%w: %s: benchmark returns undefined", ErrBenchmarkData, in.BenchmarkTicker)
	}

	tickers := make([]string, 0, len(in.Bars))
	for t := range in.Bars {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	outcomes := e.computeIndicators(ctx, tickers, in.Bars)

	// RS needs the full cross-section: all indicator sets must exist
	// before percentile ranking can run.
	indicators := make(map[string]*contracts.IndicatorSet, len(tickers))
	for i, t := range tickers {
		if outcomes[i].err == nil {
			indicators[t] = outcomes[i].set
		}
	}
	rsResults := RelativeStrengthScores(indicators, bench)

	results := make([]contracts.ScoredResult, 0, len(tickers))
	failed := 0
	for i, t := range tickers {
		if outcomes[i].err != nil {
			failed++
			results = append(results, e.errorResult(t, in.Info, outcomes[i].err))
			continue
		}
		results = append(results, e.scoreTicker(t, outcomes[i].set, rsResults[t], in.Info))
	}

	// Descending by final score; ties break ascending by ticker so
	// identical inputs always produce identical ordering.
	sort.Slice(results, func(i, j int) bool {
		if results[i].FinalScore != results[j].FinalScore {
			return results[i].FinalScore > results[j].FinalScore
		}
		return results[i].Ticker < results[j].Ticker
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	batch := &contracts.BatchResult{
		Results: results,
		Benchmark: contracts.BenchmarkSummary{
			Ticker:   in.BenchmarkTicker,
			Return1M: round2(*bench.Return1M),
			Return3M: round2(*bench.Return3M),
		},
		ComputedAt: time.Now().UTC(),
	}

	e.logger.WithFields(map[string]interface{}{
		"tickers":   len(tickers),
		"failed":    failed,
		"benchmark": in.BenchmarkTicker,
	}).Info("Scoring run completed")

	return batch, nil
}

// computeIndicators runs the indicator phase over a bounded worker
// pool. Bar series are read-only and every worker writes to its own
// slot, so no locking is needed.
func (e *Engine) computeIndicators(ctx context.Context, tickers []string, bars map[string][]contracts.Bar) []indicatorOutcome {
	outcomes := make([]indicatorOutcome, len(tickers))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := e.workers
	if workers > len(tickers) {
		workers = len(tickers)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				t := tickers[i]
				set, err := ComputeIndicators(t, bars[t])
				outcomes[i] = indicatorOutcome{set: set, err: err}
			}
		}()
	}

	for i := range tickers {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes
}

// scoreTicker computes the sub-scores and weighted composite for one
// ticker.
func (e *Engine) scoreTicker(ticker string, ind *contracts.IndicatorSet, rs RSResult, info map[string]contracts.TickerInfo) contracts.ScoredResult {
	trend := TrendScore(ind)
	pullback := PullbackScore(ind)
	volatility := VolatilityScore(ind)

	final := e.weights.RelStrength*rs.Score +
		e.weights.Trend*trend +
		e.weights.Pullback*pullback +
		e.weights.Volatility*volatility

	result := contracts.ScoredResult{
		Ticker:          ticker,
		FinalScore:      final,
		RSScore:         rs.Score,
		RSComposite:     rs.Composite,
		TrendScore:      trend,
		PullbackScore:   pullback,
		VolatilityScore: volatility,
		Indicators:      snapshot(ind),
	}
	mergeInfo(&result, info)

	return result
}

// errorResult builds the zero-score record for a failed ticker. It
// stays in the batch and sorts to the bottom.
func (e *Engine) errorResult(ticker string, info map[string]contracts.TickerInfo, err error) contracts.ScoredResult {
	e.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"error":  err.Error(),
	}).Warn("Ticker excluded from scoring")

	result := contracts.ScoredResult{
		Ticker: ticker,
		Error:  err.Error(),
	}
	mergeInfo(&result, info)

	return result
}

// mergeInfo copies pass-through display metadata onto a result.
func mergeInfo(result *contracts.ScoredResult, info map[string]contracts.TickerInfo) {
	if info == nil {
		return
	}
	if meta, ok := info[result.Ticker]; ok {
		result.Name = meta.Name
		result.Sector = meta.Sector
		result.Industry = meta.Industry
	}
}

// snapshot builds the rounded indicator subset attached to a result.
func snapshot(ind *contracts.IndicatorSet) *contracts.IndicatorSnapshot {
	s := &contracts.IndicatorSnapshot{
		Close:    round2(ind.Close),
		EMA20:    round2(ind.EMA20),
		RSI14:    round2(ind.RSI14),
		AvgVol20: round2(ind.AvgVol20),
	}
	if ind.Close != 0 {
		s.ATRPct = round2(ind.ATR14 / ind.Close * 100)
	}
	if ind.SMA50 != nil {
		s.SMA50 = round2(*ind.SMA50)
	}
	if ind.Return1M != nil {
		s.Return1M = round2(*ind.Return1M)
	}
	if ind.Return3M != nil {
		s.Return3M = round2(*ind.Return3M)
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
