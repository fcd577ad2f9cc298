package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		previous string
		want     string
	}{
		{"fifty percent up", "300", "200", "50.00"},
		{"previous zero", "300", "0", "0.00"},
		{"both zero", "0", "0", "0.00"},
		{"decline", "150", "200", "-25.00"},
		{"full drop", "0", "80", "-100.00"},
		{"rounds to two places", "100.01", "300", "-66.66"},
		{"thirds", "400", "300", "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeGrowth(decimal.RequireFromString(tt.current), decimal.RequireFromString(tt.previous))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGrowthWindows(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	cur, prev := GrowthWindows(now)

	assert.Equal(t, time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC), cur.From)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), cur.To)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), prev.From)
	assert.Equal(t, cur.From, prev.To)

	assert.True(t, cur.Contains(now))
	assert.True(t, cur.Contains(cur.From))
	assert.False(t, prev.Contains(cur.From))
	assert.True(t, prev.Contains(cur.From.Add(-time.Nanosecond)))
}

func TestParseDateRange(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		r, err := ParseDateRange("", "")
		require.NoError(t, err)
		from, to := r.Bounds()
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("inclusive end", func(t *testing.T) {
		r, err := ParseDateRange("2025-01-01", "2025-01-31")
		require.NoError(t, err)
		from, to := r.Bounds()
		require.NotNil(t, from)
		require.NotNil(t, to)
		assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *to)
	})

	t.Run("single day", func(t *testing.T) {
		r, err := ParseDateRange("2025-01-05", "2025-01-05")
		require.NoError(t, err)
		from, to := r.Bounds()
		assert.Equal(t, 24*time.Hour, to.Sub(*from))
	})

	t.Run("bad format", func(t *testing.T) {
		_, err := ParseDateRange("01/05/2025", "")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("reversed", func(t *testing.T) {
		_, err := ParseDateRange("2025-02-01", "2025-01-01")
		assert.ErrorIs(t, err, ErrInvalidRange)
	})
}
