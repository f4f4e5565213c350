package scoring

import (
	"fmt"
	"math"

	"github.com/wonny/swingrank/internal/contracts"
)

// MinBars is the minimum series length required to compute a full
// indicator set.
const MinBars = 80

// InsufficientDataError reports a bar series too short to score.
// Non-fatal at batch level: the ticker degrades to a zero-score error
// record.
type InsufficientDataError struct {
	Got int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("Insufficient data: need at least %d bars, got %d", MinBars, e.Got)
}

// ComputeIndicators derives the full indicator set from an
// ascending-by-date bar series. Series shorter than MinBars fail with
// InsufficientDataError. The input is never mutated.
func ComputeIndicators(ticker string, bars []contracts.Bar) (*contracts.IndicatorSet, error) {
	if len(bars) < MinBars {
		return nil, &InsufficientDataError{Got: len(bars)}
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	ind := &contracts.IndicatorSet{
		Ticker:   ticker,
		Close:    closes[len(closes)-1],
		EMA20:    ema(closes, 20),
		RSI14:    rsi(closes, 14),
		ATR5:     atr(bars, 5),
		ATR14:    atr(bars, 14),
		ATR20:    atr(bars, 20),
		AvgVol20: avgVolume(bars, 20),
	}

	if v, ok := sma(closes, 50); ok {
		ind.SMA50 = &v
	}
	if v, ok := smaOffset(closes, 50, 20); ok {
		ind.SMA5020Ago = &v
	}
	if v, ok := periodReturn(closes, 21); ok {
		ind.Return1M = &v
	}
	if v, ok := periodReturn(closes, 63); ok {
		ind.Return3M = &v
	}

	return ind, nil
}

// sma returns the arithmetic mean of the last period closes.
func sma(closes []float64, period int) (float64, bool) {
	if len(closes) < period || period <= 0 {
		return 0, false
	}

	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	return sum / float64(period), true
}

// smaOffset returns the SMA over the window ending offset bars before
// the most recent close. Used to measure where the 50-day average sat
// 20 sessions ago.
func smaOffset(closes []float64, period, offset int) (float64, bool) {
	if len(closes) < period+offset {
		return 0, false
	}
	return sma(closes[:len(closes)-offset], period)
}

// ema computes the exponential moving average seeded from the simple
// average of the first period closes, then recursed forward to the
// most recent bar. Seeding from the head is load-bearing: a tail seed
// shifts every downstream value.
func ema(closes []float64, period int) float64 {
	if len(closes) < period {
		return 0
	}

	var seed float64
	for _, c := range closes[:period] {
		seed += c
	}
	seed /= float64(period)

	multiplier := 2.0 / (float64(period) + 1.0)
	value := seed
	for _, c := range closes[period:] {
		value = (c-value)*multiplier + value
	}

	return value
}

// rsi computes Wilder's Relative Strength Index. The first averages
// are simple means of the first period gains/losses; every later
// change blends in with (avg*(period-1) + current)/period.
func rsi(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return 0
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// atr computes Wilder-smoothed Average True Range. The first ATR is
// the simple mean of the first period true ranges.
func atr(bars []contracts.Bar, period int) float64 {
	if len(bars) < period+1 {
		return 0
	}

	trueRanges := make([]float64, 0, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		tr := trueRange(bars[i], bars[i-1].Close)
		trueRanges = append(trueRanges, tr)
	}

	var value float64
	for _, tr := range trueRanges[:period] {
		value += tr
	}
	value /= float64(period)

	for _, tr := range trueRanges[period:] {
		value = (value*float64(period-1) + tr) / float64(period)
	}

	return value
}

// trueRange is max(high-low, |high-prevClose|, |low-prevClose|).
func trueRange(bar contracts.Bar, prevClose float64) float64 {
	return math.Max(bar.High-bar.Low,
		math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
}

// avgVolume returns the mean volume over the last period bars.
func avgVolume(bars []contracts.Bar, period int) float64 {
	if len(bars) < period || period <= 0 {
		return 0
	}

	var sum int64
	for _, b := range bars[len(bars)-period:] {
		sum += b.Volume
	}
	return float64(sum) / float64(period)
}

// periodReturn is the percent change of the latest close versus the
// close n bars earlier.
func periodReturn(closes []float64, n int) (float64, bool) {
	if len(closes) < n+1 {
		return 0, false
	}

	past := closes[len(closes)-1-n]
	if past == 0 {
		return 0, false
	}

	return (closes[len(closes)-1] - past) / past * 100, true
}
