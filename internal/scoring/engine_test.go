package scoring

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/swingrank/internal/contracts"
	"github.com/wonny/swingrank/pkg/logger"
)

func newTestEngine(workers int) *Engine {
	return NewEngine(DefaultWeights(), workers, logger.NewNop())
}

func TestEngine_Run_BenchmarkFailureIsFatal(t *testing.T) {
	engine := newTestEngine(2)

	in := RunInput{
		BenchmarkTicker: "SPY",
		BenchmarkBars:   makeBars(50, 400, 0.1, 50_000_000),
		Bars: map[string][]contracts.Bar{
			"AAPL": makeBars(100, 150, 0.5, 60_000_000),
		},
	}

	batch, err := engine.Run(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBenchmarkData)
	assert.Nil(t, batch, "no partial results on benchmark failure")
}

func TestEngine_Run_RanksStrongAboveWeak(t *testing.T) {
	engine := newTestEngine(4)

	in := RunInput{
		BenchmarkTicker: "SPY",
		BenchmarkBars:   makeBars(100, 400, 0.2, 50_000_000),
		Bars: map[string][]contracts.Bar{
			"STRONG": makeBars(100, 100, 1.0, 2_000_000),
			"WEAK":   makeBars(100, 100, -0.2, 2_000_000),
		},
		Info: map[string]contracts.TickerInfo{
			"STRONG": {Ticker: "STRONG", Name: "Strong Corp", Sector: "Technology"},
		},
	}

	batch, err := engine.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, batch.Results, 2)

	first, second := batch.Results[0], batch.Results[1]
	assert.Equal(t, "STRONG", first.Ticker)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "Strong Corp", first.Name)
	assert.Equal(t, "Technology", first.Sector)
	assert.Greater(t, first.FinalScore, second.FinalScore)

	assert.Equal(t, "WEAK", second.Ticker)
	assert.Equal(t, 2, second.Rank)

	assert.Equal(t, "SPY", batch.Benchmark.Ticker)
	require.NotNil(t, first.Indicators)
	assert.Greater(t, first.Indicators.Close, 0.0)
}

func TestEngine_Run_ErrorRecordStaysInBatch(t *testing.T) {
	engine := newTestEngine(4)

	in := RunInput{
		BenchmarkTicker: "SPY",
		BenchmarkBars:   makeBars(100, 400, 0.2, 50_000_000),
		Bars: map[string][]contracts.Bar{
			"GOOD":  makeBars(100, 100, 0.5, 2_000_000),
			"SHORT": makeBars(40, 100, 0.5, 2_000_000),
			"EMPTY": nil,
		},
	}

	batch, err := engine.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, batch.Results, 3)

	assert.Equal(t, "GOOD", batch.Results[0].Ticker)
	assert.Empty(t, batch.Results[0].Error)

	// Failed tickers keep zero scores and sink to the bottom,
	// tie-broken alphabetically.
	assert.Equal(t, "EMPTY", batch.Results[1].Ticker)
	assert.Equal(t, "SHORT", batch.Results[2].Ticker)
	for _, res := range batch.Results[1:] {
		assert.NotEmpty(t, res.Error)
		assert.Equal(t, 0.0, res.FinalScore)
		assert.Nil(t, res.Indicators)
	}
	assert.Contains(t, batch.Results[2].Error, "Insufficient data")
}

func TestEngine_Run_Deterministic(t *testing.T) {
	engine := newTestEngine(8)

	in := RunInput{
		BenchmarkTicker: "SPY",
		BenchmarkBars:   makeBars(100, 400, 0.2, 50_000_000),
		Bars: map[string][]contracts.Bar{
			"AAA": makeBars(100, 100, 0.4, 2_000_000),
			"BBB": makeBars(100, 100, 0.4, 2_000_000),
			"CCC": makeBars(100, 50, 0.7, 3_000_000),
			"DDD": makeBars(100, 200, -0.3, 1_000_000),
		},
	}

	first, err := engine.Run(context.Background(), in)
	require.NoError(t, err)
	second, err := engine.Run(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, second.Results, len(first.Results))
	for i := range first.Results {
		assert.Equal(t, first.Results[i].Ticker, second.Results[i].Ticker)
		assert.Equal(t, first.Results[i].Rank, second.Results[i].Rank)
		assert.Equal(t, first.Results[i].FinalScore, second.Results[i].FinalScore)
	}

	// AAA and BBB share identical bars, so the tie breaks by ticker.
	posAAA, posBBB := -1, -1
	for i, res := range first.Results {
		switch res.Ticker {
		case "AAA":
			posAAA = i
		case "BBB":
			posBBB = i
		}
	}
	require.NotEqual(t, -1, posAAA)
	require.NotEqual(t, -1, posBBB)
	assert.Equal(t, posAAA+1, posBBB)
	assert.Equal(t, first.Results[posAAA].FinalScore, first.Results[posBBB].FinalScore)
}

func TestEngine_Run_FinalScoreIsWeightedBlend(t *testing.T) {
	engine := newTestEngine(1)

	in := RunInput{
		BenchmarkTicker: "SPY",
		BenchmarkBars:   makeBars(100, 400, 0.2, 50_000_000),
		Bars: map[string][]contracts.Bar{
			"AAPL": makeBars(100, 150, 0.5, 60_000_000),
		},
	}

	batch, err := engine.Run(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, batch.Results, 1)

	res := batch.Results[0]
	w := DefaultWeights()
	want := w.RelStrength*res.RSScore +
		w.Trend*res.TrendScore +
		w.Pullback*res.PullbackScore +
		w.Volatility*res.VolatilityScore

	assert.InDelta(t, want, res.FinalScore, 1e-9)
}

func TestBatchResult_Top(t *testing.T) {
	batch := &contracts.BatchResult{
		Results: []contracts.ScoredResult{
			{Ticker: "A", Rank: 1},
			{Ticker: "B", Rank: 2},
			{Ticker: "C", Rank: 3},
		},
	}

	assert.Len(t, batch.Top(2), 2)
	assert.Len(t, batch.Top(10), 3)
	assert.Empty(t, batch.Top(0))
}
