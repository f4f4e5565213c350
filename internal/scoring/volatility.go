package scoring

import "github.com/wonny/swingrank/internal/contracts"

// minLiquidVolume is the 20-day average volume under which the
// illiquidity penalty kicks in.
const minLiquidVolume = 500_000

// Bell curve on daily ATR as a percent of price; the optimum sits
// near a 3% daily range.
var volatilityCurve = []Breakpoint{
	{X: 0, Y: 10},
	{X: 1, Y: 50},
	{X: 2, Y: 90},
	{X: 3, Y: 100},
	{X: 4, Y: 90},
	{X: 6, Y: 60},
	{X: 8, Y: 30},
	{X: 10, Y: 10},
}

// Penalty ramp for thinly traded names.
var volumePenalty = []Breakpoint{
	{X: 0, Y: -40},
	{X: 200_000, Y: -20},
	{X: 500_000, Y: 0},
}

// VolatilityScore scores the 14-day ATR as a percent of price through
// a bell curve and penalizes thin 20-day average volume. Floored at
// 0; 0 when a required indicator is missing.
func VolatilityScore(ind *contracts.IndicatorSet) float64 {
	if ind == nil || ind.Close == 0 || ind.ATR14 == 0 {
		return 0
	}

	atrPct := ind.ATR14 / ind.Close * 100
	score := GradientScore(atrPct, volatilityCurve)

	if ind.AvgVol20 < minLiquidVolume {
		score += GradientScore(ind.AvgVol20, volumePenalty)
	}

	if score < 0 {
		return 0
	}
	return score
}
