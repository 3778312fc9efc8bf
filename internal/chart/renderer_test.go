package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSandbox/internal/model"
)

var pngMagic = []byte("\x89PNG")

func TestRenderer_Path(t *testing.T) {
	r := NewRenderer(time.Minute)
	img, err := r.Path("", "AAPL", model.PricePath{Prices: []float64{100, 101, 99.5, 102}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
	assert.Zero(t, r.cache.len())
}

func TestRenderer_PortfolioAndGraph(t *testing.T) {
	r := NewRenderer(time.Minute)
	res := model.PortfolioResult{
		Series: []float64{300, 303, 306},
		Components: []model.Component{
			{PricePath: model.PricePath{Prices: []float64{100, 101, 102}}, Symbol: "A", Shares: 1},
			{PricePath: model.PricePath{Prices: []float64{200, 202, 204}}, Symbol: "B", Shares: 1},
		},
	}
	img, err := r.Portfolio("p", res)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))

	img, err = r.Graph("", model.GraphResult{Values: []float64{1, 2, 3}, Baseline: []float64{1, 1.5, 2}})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(img, pngMagic))
}

func TestRenderer_TooFewPoints(t *testing.T) {
	_, err := NewRenderer(0).Path("", "X", model.PricePath{Prices: []float64{1}})
	require.Error(t, err)
}

func TestRenderer_CachedByKey(t *testing.T) {
	r := NewRenderer(time.Minute)
	first, err := r.Path("k", "AAPL", model.PricePath{Prices: []float64{1, 2, 3}})
	require.NoError(t, err)

	// A cache hit ignores the new data.
	second, err := r.Path("k", "AAPL", model.PricePath{Prices: []float64{9, 8}})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImageCache_Expiry(t *testing.T) {
	now := time.Unix(1000, 0)
	c := newImageCache(time.Minute)
	c.now = func() time.Time { return now }

	c.set("a", []byte{1, 2})
	img, ok := c.get("a")
	require.True(t, ok)
	img[0] = 9

	again, _ := c.get("a")
	assert.Equal(t, []byte{1, 2}, again)

	now = now.Add(2 * time.Minute)
	_, ok = c.get("a")
	assert.False(t, ok)
	assert.Zero(t, c.len())
}

func TestImageCache_DisabledWithoutKeyOrTTL(t *testing.T) {
	c := newImageCache(0)
	c.set("a", []byte{1})
	_, ok := c.get("a")
	assert.False(t, ok)

	c = newImageCache(time.Minute)
	c.set("", []byte{1})
	assert.Zero(t, c.len())
}

func TestStrideIndexes(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, strideIndexes(3))

	idx := strideIndexes(1_000_001)
	assert.LessOrEqual(t, len(idx), MaxPoints)
	assert.Equal(t, 0, idx[0])
	assert.Equal(t, 1_000_000, idx[len(idx)-1])
	for i := 1; i < len(idx); i++ {
		assert.Greater(t, idx[i], idx[i-1])
	}
}

func TestSample_PadsShortSeries(t *testing.T) {
	assert.Equal(t, []float64{1, 2, 2}, sample([]float64{1, 2}, []int{0, 1, 2}))
	assert.Equal(t, []float64{0, 0}, sample(nil, []int{0, 1}))
}
