package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"MarketSandbox/internal/store"
)

func writeCSV(t *testing.T, dir, ticker, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "FundData_"+ticker+".csv"), []byte(body), 0o644))
}

func TestCSVSource_History(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "AAPL", "\xef\xbb\xbfName,Dates,Close\n"+
		"a,2024-01-03,\"1,203.5\"\n"+
		"b,2024-01-01,100\n"+
		"c,2024-01-02,n/a\n"+
		"d,2024-01-01,101\n")

	h, err := NewCSVSource(dir).History("aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", h.Ticker)
	require.Len(t, h.Points, 2)
	assert.Equal(t, "2024-01-01", h.Points[0].Date)
	assert.Equal(t, 101.0, h.Points[0].Value)
	assert.Equal(t, "2024-01-03", h.Points[1].Date)
	assert.Equal(t, 1203.5, h.Points[1].Value)
}

func TestCSVSource_SemicolonAndNonISO(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "MSFT", "date;value\n03.01.2024;3\n01.01.2024;1\n")

	h, err := NewCSVSource(dir).History("MSFT")
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1}, h.Values())
}

func TestCSVSource_Latest(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "TSLA", "Date\tPrice\n2024-01-01\t10\n2024-01-02\t12\n2024-01-03\t\n")

	v, err := NewCSVSource(dir).Latest("tsla")
	require.NoError(t, err)
	assert.Equal(t, 12.0, v)
}

func TestCSVSource_Missing(t *testing.T) {
	src := NewCSVSource(t.TempDir())
	_, err := src.History("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = src.Latest("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCSVSource_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeCSV(t, dir, "EMPTY", "")

	h, err := NewCSVSource(dir).History("EMPTY")
	require.NoError(t, err)
	assert.Empty(t, h.Points)
}

func TestCollector_CurrentPriceFallbacks(t *testing.T) {
	prices := store.NewPriceCache()
	src := &MockSource{Data: map[string][]float64{"AAPL": {190, 195}}}
	c := NewCollector(src, prices, map[string]float64{"aapl": 200, "nvda": 900}, zap.NewNop())

	p, err := c.CurrentPrice("AAPL")
	require.NoError(t, err)
	assert.Equal(t, 195.0, p)

	p, err = c.CurrentPrice("NVDA")
	require.NoError(t, err)
	assert.Equal(t, 900.0, p)

	prices.Set("nvda", 950)
	p, err = c.CurrentPrice("NVDA")
	require.NoError(t, err)
	assert.Equal(t, 950.0, p)

	_, err = c.CurrentPrice("XYZ")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollector_Closes(t *testing.T) {
	c := NewCollector(&MockSource{Data: map[string][]float64{"AAPL": {1, 2, 3}}}, store.NewPriceCache(), nil, zap.NewNop())

	closes, err := c.Closes("aapl")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, closes)

	_, err = c.Closes("MSFT")
	assert.ErrorIs(t, err, ErrNotFound)
}
