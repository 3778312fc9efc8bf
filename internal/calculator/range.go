package calculator

import (
	"errors"
	"math"
)

// SeriesRange scans values and returns the high and low.
func SeriesRange(values []float64) (high, low float64, err error) {
	if len(values) == 0 {
		return 0, 0, errors.New("no values provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, v := range values {
		if v > high {
			high = v
		}
		if v < low {
			low = v
		}
	}
	return high, low, nil
}

// PaddedRange widens the range of all given series by pad (a fraction of the
// span). A flat series is padded by pad times its magnitude instead.
func PaddedRange(pad float64, series ...[]float64) (lo, hi float64, err error) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		h, l, _ := SeriesRange(s)
		if h > hi {
			hi = h
		}
		if l < lo {
			lo = l
		}
	}
	if math.IsInf(lo, 1) {
		return 0, 0, errors.New("no values provided")
	}
	p := (hi - lo) * pad
	if p == 0 {
		p = math.Abs(hi) * pad
	}
	if p == 0 {
		p = 1
	}
	return lo - p, hi + p, nil
}
