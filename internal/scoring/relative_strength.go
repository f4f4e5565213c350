package scoring

import "github.com/wonny/swingrank/internal/contracts"

// Relative-strength weighting of the return differential versus the
// benchmark: 3-month carries more than 1-month.
const (
	rsWeight3M = 0.6
	rsWeight1M = 0.4
)

// RSResult holds the relative-strength output for one ticker.
type RSResult struct {
	Score     float64
	Composite float64
	Valid     bool
}

// RelativeStrengthScores ranks each ticker's composite return
// differential against the benchmark across the whole batch.
// Tickers with a nil indicator set or missing returns score 0 and are
// excluded from the percentile population, so they never move other
// tickers' scores. An empty population scores everyone 0.
func RelativeStrengthScores(indicators map[string]*contracts.IndicatorSet, bench *contracts.IndicatorSet) map[string]RSResult {
	results := make(map[string]RSResult, len(indicators))

	composites := make(map[string]float64, len(indicators))
	population := make([]float64, 0, len(indicators))

	for ticker, ind := range indicators {
		c, ok := rsComposite(ind, bench)
		if !ok {
			results[ticker] = RSResult{}
			continue
		}
		composites[ticker] = c
		population = append(population, c)
	}

	for ticker, c := range composites {
		results[ticker] = RSResult{
			Score:     percentileRank(population, c) * 100,
			Composite: c,
			Valid:     true,
		}
	}

	return results
}

// rsComposite blends the 3-month and 1-month return differentials
// versus the benchmark.
func rsComposite(ind, bench *contracts.IndicatorSet) (float64, bool) {
	if ind == nil || bench == nil {
		return 0, false
	}
	if ind.Return1M == nil || ind.Return3M == nil ||
		bench.Return1M == nil || bench.Return3M == nil {
		return 0, false
	}

	return rsWeight3M*(*ind.Return3M-*bench.Return3M) +
		rsWeight1M*(*ind.Return1M-*bench.Return1M), true
}

// percentileRank returns the fraction of population strictly below v
// plus half the fraction exactly equal. Ties split evenly; an empty
// population ranks 0.
func percentileRank(population []float64, v float64) float64 {
	if len(population) == 0 {
		return 0
	}

	below, equal := 0, 0
	for _, s := range population {
		switch {
		case s < v:
			below++
		case s == v:
			equal++
		}
	}

	return (float64(below) + 0.5*float64(equal)) / float64(len(population))
}
