package scoring

import "github.com/wonny/swingrank/internal/contracts"

// Ramps for the four trend legs. Price-versus-average legs saturate at
// +-5%, the tighter average-versus-average and slope legs at +-3%.
var (
	trendWideRamp = []Breakpoint{
		{X: -5, Y: 0},
		{X: 0, Y: 0.5},
		{X: 5, Y: 1},
	}
	trendTightRamp = []Breakpoint{
		{X: -3, Y: 0},
		{X: 0, Y: 0.5},
		{X: 3, Y: 1},
	}
)

// TrendScore measures trend alignment as the average of four gradient
// legs: close vs EMA20, close vs SMA50, EMA20 vs SMA50, and the
// 20-day slope of SMA50. Returns 0..100, or 0 when a required
// indicator is missing.
func TrendScore(ind *contracts.IndicatorSet) float64 {
	if ind == nil || ind.SMA50 == nil || ind.SMA5020Ago == nil {
		return 0
	}

	sma50 := *ind.SMA50
	sma50Ago := *ind.SMA5020Ago
	if ind.EMA20 == 0 || sma50 == 0 || sma50Ago == 0 {
		return 0
	}

	closeVsEMA := percentDistance(ind.Close, ind.EMA20)
	closeVsSMA := percentDistance(ind.Close, sma50)
	emaVsSMA := percentDistance(ind.EMA20, sma50)
	smaSlope := percentDistance(sma50, sma50Ago)

	sum := GradientScore(closeVsEMA, trendWideRamp) +
		GradientScore(closeVsSMA, trendWideRamp) +
		GradientScore(emaVsSMA, trendTightRamp) +
		GradientScore(smaSlope, trendTightRamp)

	return sum / 4 * 100
}

// percentDistance is the percent difference of a versus base.
func percentDistance(a, base float64) float64 {
	return (a - base) / base * 100
}
