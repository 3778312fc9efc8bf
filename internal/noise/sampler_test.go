package noise

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketSandbox/internal/model"
)

func seedOf(v uint64) *uint64 { return &v }

func TestSample_SameSeedIsBitIdentical(t *testing.T) {
	for _, dist := range []model.Distribution{model.DistNormal, model.DistStudentT} {
		a := Seeded(seedOf(42)).Sample(dist, 500, 5, 0.01)
		b := Seeded(seedOf(42)).Sample(dist, 500, 5, 0.01)
		require.Equal(t, a, b, "dist %s", dist)
	}
}

func TestSample_DifferentSeedsDiffer(t *testing.T) {
	a := Seeded(seedOf(1)).Normal(50, 1)
	b := Seeded(seedOf(2)).Normal(50, 1)
	assert.NotEqual(t, a, b)
}

func TestSample_UnseededVaries(t *testing.T) {
	a := Seeded(nil).Normal(50, 1)
	b := Seeded(nil).Normal(50, 1)
	assert.NotEqual(t, a, b)
}

func TestStudentT_FiniteForAllDegrees(t *testing.T) {
	for _, nu := range []int{1, 2, 3, 5, 30, 200} {
		xs := Seeded(seedOf(7)).StudentT(2000, nu, 1)
		require.Len(t, xs, 2000)
		for _, x := range xs {
			require.False(t, math.IsNaN(x) || math.IsInf(x, 0), "nu=%d produced %v", nu, x)
		}
	}
}

func TestStudentT_HeavierTailsForLowNu(t *testing.T) {
	count := func(nu int) int {
		n := 0
		for _, x := range Seeded(seedOf(11)).StudentT(20000, nu, 1) {
			if math.Abs(x) > 4 {
				n++
			}
		}
		return n
	}
	assert.Greater(t, count(2), count(200))
}

func TestNormal_ScaleZeroGivesZeros(t *testing.T) {
	for _, x := range Seeded(seedOf(3)).Normal(10, 0) {
		assert.Zero(t, x)
	}
}

func TestSampler_ConcurrentSameSeed(t *testing.T) {
	want := Seeded(seedOf(99)).StudentT(1000, 5, 1)

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Seeded(seedOf(99)).StudentT(1000, 5, 1)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		require.Equal(t, want, got)
	}
}
