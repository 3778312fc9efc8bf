package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSMA(t *testing.T) {
	v, err := CalculateSMA([]float64{1, 2, 3, 4}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = CalculateSMA([]float64{1}, 2)
	assert.Error(t, err)
	_, err = CalculateSMA([]float64{1}, 0)
	assert.Error(t, err)
}

func TestRollingMean(t *testing.T) {
	tests := []struct {
		values []float64
		window int
		want   []float64
	}{
		{[]float64{4}, 3, []float64{4}},
		{[]float64{2, 4}, 3, []float64{2, 3}},
		{[]float64{1, 2, 3, 6}, 3, []float64{1, 1.5, 2, 11.0 / 3}},
		{[]float64{1, 2, 3, 6}, 1, []float64{1, 2, 3, 6}},
		{[]float64{5, 7}, 0, []float64{5, 7}},
	}
	for _, tt := range tests {
		r := NewRollingMean(tt.window)
		for i, v := range tt.values {
			assert.InDelta(t, tt.want[i], r.Push(v), 1e-12, "values=%v window=%d step=%d", tt.values, tt.window, i)
		}
	}
}

func TestRollingMean_MatchesNaiveMean(t *testing.T) {
	const window = 7
	r := NewRollingMean(window)
	var values []float64
	for i := 0; i < 500; i++ {
		v := float64((i*37)%101) + 0.25
		values = append(values, v)
		want, _ := Mean(values[max(len(values)-window, 0):])
		require.InDelta(t, want, r.Push(v), 1e-9, "step %d", i)
	}
}

func TestNextEMA(t *testing.T) {
	assert.InDelta(t, 12.0, NextEMA(10, 20, 0.2), 1e-12)
}

func TestMean(t *testing.T) {
	_, ok := Mean(nil)
	assert.False(t, ok)

	m, ok := Mean([]float64{1, 2, 3})
	require.True(t, ok)
	assert.Equal(t, 2.0, m)
}

func TestSeriesRange(t *testing.T) {
	h, l, err := SeriesRange([]float64{3, 1, 5, 2})
	require.NoError(t, err)
	assert.Equal(t, 5.0, h)
	assert.Equal(t, 1.0, l)

	_, _, err = SeriesRange(nil)
	assert.Error(t, err)
}

func TestPaddedRange(t *testing.T) {
	lo, hi, err := PaddedRange(0.05, []float64{100, 200}, []float64{150})
	require.NoError(t, err)
	assert.InDelta(t, 95, lo, 1e-9)
	assert.InDelta(t, 205, hi, 1e-9)

	lo, hi, err = PaddedRange(0.05, []float64{100, 100})
	require.NoError(t, err)
	assert.InDelta(t, 95, lo, 1e-9)
	assert.InDelta(t, 105, hi, 1e-9)

	_, _, err = PaddedRange(0.05)
	assert.Error(t, err)
}

func TestCalculateRSI(t *testing.T) {
	rising := make([]float64, 20)
	for i := range rising {
		rising[i] = float64(100 + i)
	}
	rsi, err := CalculateRSI(rising, 14)
	require.NoError(t, err)
	assert.Equal(t, 100.0, rsi)

	rsi, err = CalculateRSI([]float64{1, 2, 3}, 14)
	require.NoError(t, err)
	assert.Equal(t, 50.0, rsi)

	falling := make([]float64, 20)
	for i := range falling {
		falling[i] = float64(100 - i)
	}
	rsi, err = CalculateRSI(falling, 14)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rsi)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{10, 12, 11})
	assert.Equal(t, 12.0, s.High)
	assert.Equal(t, 10.0, s.Low)
	assert.InDelta(t, 11.0, s.SMA, 1e-12)
	assert.Equal(t, 50.0, s.RSI)
}
