package contracts

import "time"

// IndicatorSet holds the derived indicators for one ticker.
// Fields that depend on deep history are pointers; nil means the
// indicator could not be computed from the supplied series and every
// scorer consuming it must guard explicitly.
type IndicatorSet struct {
	Ticker string `json:"ticker"`

	Close float64 `json:"close"`
	EMA20 float64 `json:"ema20"`
	RSI14 float64 `json:"rsi14"`

	ATR5  float64 `json:"atr5"`
	ATR14 float64 `json:"atr14"`
	ATR20 float64 `json:"atr20"`

	AvgVol20 float64 `json:"avg_vol_20"`

	SMA50      *float64 `json:"sma50,omitempty"`
	SMA5020Ago *float64 `json:"sma50_20ago,omitempty"`
	Return1M   *float64 `json:"return_1m,omitempty"`
	Return3M   *float64 `json:"return_3m,omitempty"`
}

// IndicatorSnapshot is the rounded indicator subset attached to a
// scored result for display.
type IndicatorSnapshot struct {
	Close    float64 `json:"close"`
	EMA20    float64 `json:"ema20"`
	SMA50    float64 `json:"sma50"`
	RSI14    float64 `json:"rsi14"`
	ATRPct   float64 `json:"atr_pct"`
	AvgVol20 float64 `json:"avg_vol_20"`
	Return1M float64 `json:"return_1m"`
	Return3M float64 `json:"return_3m"`
}

// ScoredResult is the per-ticker output of a scoring run.
// Failed tickers carry an Error string and zero scores; they stay in
// the result array and sort to the bottom.
type ScoredResult struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name,omitempty"`
	Sector   string `json:"sector,omitempty"`
	Industry string `json:"industry,omitempty"`

	Rank            int     `json:"rank"`
	FinalScore      float64 `json:"final_score"`
	RSScore         float64 `json:"rs_score"`
	RSComposite     float64 `json:"rs_composite"`
	TrendScore      float64 `json:"trend_score"`
	PullbackScore   float64 `json:"pullback_score"`
	VolatilityScore float64 `json:"volatility_score"`

	Indicators *IndicatorSnapshot `json:"indicators,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// BenchmarkSummary carries the benchmark returns attached to a batch
// for display.
type BenchmarkSummary struct {
	Ticker   string  `json:"ticker"`
	Return1M float64 `json:"return_1m"`
	Return3M float64 `json:"return_3m"`
}

// BatchResult is the output of one scoring run over a ticker set.
// Results are sorted descending by final score with rank assigned
// 1..N by sorted position.
type BatchResult struct {
	Results    []ScoredResult   `json:"results"`
	Benchmark  BenchmarkSummary `json:"benchmark"`
	ComputedAt time.Time        `json:"computed_at"`
}

// Top returns the top n results by rank.
func (b *BatchResult) Top(n int) []ScoredResult {
	if n > len(b.Results) {
		n = len(b.Results)
	}
	return b.Results[:n]
}

// Get returns the result for a ticker, if present.
func (b *BatchResult) Get(ticker string) (*ScoredResult, bool) {
	for i := range b.Results {
		if b.Results[i].Ticker == ticker {
			return &b.Results[i], true
		}
	}
	return nil, false
}
