package scoring

import "github.com/wonny/swingrank/internal/contracts"

// Bell-shaped preference for a small positive pullback sitting just
// above the 20-day EMA.
var pullbackCurve = []Breakpoint{
	{X: -3, Y: 0},
	{X: 0, Y: 80},
	{X: 1.5, Y: 100},
	{X: 3, Y: 90},
	{X: 6, Y: 60},
	{X: 10, Y: 20},
	{X: 15, Y: 0},
}

// Linear fade-out applied when price sinks below the 50-day SMA.
var pullbackSMAFade = []Breakpoint{
	{X: -5, Y: 0},
	{X: 0, Y: 1},
}

// RSI sweet spot around the mid-50s earns a small bonus.
var pullbackRSIBonus = []Breakpoint{
	{X: 35, Y: 0},
	{X: 45, Y: 5},
	{X: 55, Y: 10},
	{X: 65, Y: 5},
	{X: 75, Y: 0},
}

// PullbackScore scores how attractively price has pulled back toward
// the 20-day EMA, fading the score when price is under the 50-day SMA
// and adding an RSI bonus. Clamped to 0..100; 0 when a required
// indicator is missing.
func PullbackScore(ind *contracts.IndicatorSet) float64 {
	if ind == nil || ind.SMA50 == nil {
		return 0
	}
	if ind.EMA20 == 0 || *ind.SMA50 == 0 {
		return 0
	}

	score := GradientScore(percentDistance(ind.Close, ind.EMA20), pullbackCurve)

	if ind.Close < *ind.SMA50 {
		score *= GradientScore(percentDistance(ind.Close, *ind.SMA50), pullbackSMAFade)
	}

	score += GradientScore(ind.RSI14, pullbackRSIBonus)

	return clamp(score, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
