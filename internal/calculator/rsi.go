package calculator

import "errors"

// NeutralRSI is reported when a series is shorter than period+1 points.
const NeutralRSI = 50.0

// CalculateRSI returns the relative strength index with Wilder smoothing:
// the first period moves seed plain averages, every later move is folded in
// with weight 1/period. A series with no down moves reads 100.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) <= period {
		return NeutralRSI, nil
	}

	n := float64(period)
	var up, down float64
	for i := 1; i < len(closes); i++ {
		g, l := split(closes[i] - closes[i-1])
		if i <= period {
			up += g / n
			down += l / n
			continue
		}
		up += (g - up) / n
		down += (l - down) / n
	}

	if down == 0 {
		return 100, nil
	}
	return 100 - 100/(1+up/down), nil
}

// split separates a price move into its gain and loss parts.
func split(move float64) (gain, loss float64) {
	if move > 0 {
		return move, 0
	}
	return 0, -move
}
