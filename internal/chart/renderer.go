package chart

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vicanso/go-charts/v2"

	"MarketSandbox/internal/calculator"
	"MarketSandbox/internal/model"
)

// MaxPoints caps the number of plotted points per series; longer series are
// sampled at a fixed stride that keeps the last point.
const MaxPoints = 1000

const pad = 0.05

// Renderer draws simulation results as PNG line charts.
type Renderer struct {
	cache *imageCache
}

// NewRenderer creates a Renderer whose cache keeps images for ttl.
func NewRenderer(ttl time.Duration) *Renderer {
	return &Renderer{cache: newImageCache(ttl)}
}

// Path renders one price path. A non-empty key enables caching.
func (r *Renderer) Path(key, title string, path model.PricePath) ([]byte, error) {
	return r.render(key, title, []string{"price"}, path.Prices)
}

// Portfolio renders the portfolio series with every component.
func (r *Renderer) Portfolio(key string, res model.PortfolioResult) ([]byte, error) {
	names := []string{"portfolio"}
	series := [][]float64{res.Series}
	for _, c := range res.Components {
		names = append(names, c.Symbol)
		series = append(series, c.Prices)
	}
	return r.render(key, "Portfolio", names, series...)
}

// Graph renders a smoothed series with its baseline.
func (r *Renderer) Graph(key string, res model.GraphResult) ([]byte, error) {
	return r.render(key, "Graph", []string{"values", "baseline"}, res.Values, res.Baseline)
}

func (r *Renderer) render(key, title string, names []string, series ...[]float64) ([]byte, error) {
	if img, ok := r.cache.get(key); ok {
		return img, nil
	}

	n := 0
	for _, s := range series {
		n = max(n, len(s))
	}
	if n < 2 {
		return nil, errors.New("not enough data points")
	}

	yMin, yMax, err := calculator.PaddedRange(pad, series...)
	if err != nil {
		return nil, fmt.Errorf("y range: %w", err)
	}

	idx := strideIndexes(n)
	values := make([][]float64, len(series))
	for i, s := range series {
		values[i] = sample(s, idx)
	}
	labels := make([]string, len(idx))
	for i, j := range idx {
		labels[i] = strconv.Itoa(j)
	}

	painter, err := charts.LineRender(values,
		charts.TitleTextOptionFunc(title),
		charts.XAxisOptionFunc(charts.XAxisOption{Data: labels, BoundaryGap: charts.FalseFlag(), SplitNumber: min(10, len(labels)-1)}),
		charts.YAxisOptionFunc(charts.YAxisOption{Min: &yMin, Max: &yMax, DivideCount: 5}),
		charts.LegendOptionFunc(charts.LegendOption{Data: names}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	img, err := painter.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode chart: %w", err)
	}
	r.cache.set(key, img)
	return img, nil
}

// strideIndexes returns at most MaxPoints indexes into a series of length n,
// always including 0 and n-1.
func strideIndexes(n int) []int {
	if n <= MaxPoints {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	step := (n - 1 + MaxPoints - 2) / (MaxPoints - 1)
	idx := make([]int, 0, MaxPoints)
	for i := 0; i < n-1; i += step {
		idx = append(idx, i)
	}
	return append(idx, n-1)
}

// sample picks s at idx; positions past the end of a shorter series repeat
// its last value.
func sample(s []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	if len(s) == 0 {
		return out
	}
	for i, j := range idx {
		out[i] = s[min(j, len(s)-1)]
	}
	return out
}
