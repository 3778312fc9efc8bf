package calculator

import "MarketSandbox/internal/model"

const (
	summarySMAPeriod = 20
	summaryRSIPeriod = 14
)

// Summarize computes the indicator block attached to single-symbol results.
// The SMA period shrinks to the path length for short paths.
func Summarize(prices []float64) model.PathSummary {
	var s model.PathSummary
	if len(prices) == 0 {
		return s
	}
	s.High, s.Low, _ = SeriesRange(prices)

	period := summarySMAPeriod
	if len(prices) < period {
		period = len(prices)
	}
	s.SMA, _ = CalculateSMA(prices, period)
	s.RSI, _ = CalculateRSI(prices, summaryRSIPeriod)
	return s
}
