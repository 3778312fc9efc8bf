package confidence

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBlend(t *testing.T) {
	tests := []struct {
		name        string
		old, impact float64
		want        float64
	}{
		{"neutral impact keeps default", 0.5, 0, 0.5},
		{"max impact from default", 0.5, 10, 0.7},
		{"min impact from default", 0.5, -10, 0.3},
		{"impact clamped high", 0.5, 50, 0.7},
		{"impact clamped low", 0.5, -50, 0.3},
		{"full confidence and max impact", 1, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Blend(tt.old, tt.impact), 1e-12)
		})
	}
}

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "conf.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{"memory": NewMemoryStore(), "sqlite": sq}
}

func TestStores_PutAllAndGet(t *testing.T) {
	ctx := context.Background()
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "AAPL")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.PutAll(ctx, map[string]float64{"aapl": 0.8, "MSFT": 0.2}))
			require.NoError(t, s.PutAll(ctx, map[string]float64{"AAPL": 0.6}))

			v, ok, err := s.Get(ctx, "Aapl")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, 0.6, v)

			all, err := s.All(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]float64{"AAPL": 0.6, "MSFT": 0.2}, all)
		})
	}
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "conf.db")

	s, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.PutAll(ctx, map[string]float64{"NVDA": 0.9}))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get(ctx, "NVDA")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0.9, v)
}

func TestUpdater_ApplyImpacts(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.PutAll(ctx, map[string]float64{"MSFT": 1, "TSLA": 0.4}))
	u := NewUpdater(s)

	updated, err := u.ApplyImpacts(ctx, map[string]float64{"msft": -10, "AAPL": 5})
	require.NoError(t, err)
	require.Len(t, updated, 2)
	assert.InDelta(t, 0.6, updated["MSFT"], 1e-12)
	assert.InDelta(t, 0.6, updated["AAPL"], 1e-12)

	all, err := u.All(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.4, all["TSLA"], 1e-12)
	assert.InDelta(t, 0.6, all["MSFT"], 1e-12)
}

func TestUpdater_RejectsNaN(t *testing.T) {
	u := NewUpdater(NewMemoryStore())
	_, err := u.ApplyImpacts(context.Background(), map[string]float64{"AAPL": math.NaN()})
	require.ErrorIs(t, err, ErrInvalidImpact)
}

func TestUpdater_RejectsCollidingTickers(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := NewUpdater(s)

	_, err := u.ApplyImpacts(ctx, map[string]float64{"aapl": 10, " AAPL": -10})
	require.ErrorIs(t, err, ErrInvalidImpact)

	all, err := u.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
