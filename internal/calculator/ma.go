package calculator

import (
	"errors"
	"fmt"
)

// CalculateSMA averages the last period prices.
func CalculateSMA(prices []float64, period int) (float64, error) {
	switch {
	case period <= 0:
		return 0, errors.New("period must be positive")
	case len(prices) < period:
		return 0, fmt.Errorf("sma needs %d prices, got %d", period, len(prices))
	}
	return sum(prices[len(prices)-period:]) / float64(period), nil
}

// RollingMean is the mean of the last window values pushed into it, or of
// all of them while fewer have been pushed. Each Push costs O(1) and the
// buffer never grows beyond the number of values seen.
type RollingMean struct {
	window int
	buf    []float64
	next   int
	sum    float64
}

// NewRollingMean returns an empty RollingMean. A window below 1 is treated as 1.
func NewRollingMean(window int) *RollingMean {
	return &RollingMean{window: max(window, 1)}
}

// Push adds v, evicting the oldest value once the window is full, and
// returns the current mean.
func (r *RollingMean) Push(v float64) float64 {
	if len(r.buf) < r.window {
		r.buf = append(r.buf, v)
	} else {
		r.sum -= r.buf[r.next]
		r.buf[r.next] = v
		r.next = (r.next + 1) % r.window
	}
	r.sum += v
	return r.sum / float64(len(r.buf))
}

// NextEMA applies one exponential smoothing step.
func NextEMA(prev, value, alpha float64) float64 {
	return alpha*value + (1-alpha)*prev
}

// Mean returns the arithmetic mean, or false when nums is empty.
func Mean(nums []float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	return sum(nums) / float64(len(nums)), true
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
