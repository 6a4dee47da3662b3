package tools

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFibonacciLevels(t *testing.T) {
	t.Parallel()

	levels, ok := Fibonacci(100, 50)
	require.True(t, ok)
	require.Len(t, levels, 7)

	assert.Equal(t, 100.0, levels[0].Price)
	assert.Equal(t, "High", levels[0].Name)
	assert.Equal(t, "0%", levels[0].Label)

	assert.Equal(t, 75.0, levels[3].Price, "50% level is exact")
	assert.Equal(t, "50%", levels[3].Label)

	assert.Equal(t, 50.0, levels[6].Price)
	assert.Equal(t, "Low", levels[6].Name)

	assert.Equal(t, "Fib 23.6%", levels[1].Name)
	assert.InDelta(t, 88.2, levels[1].Price, 1e-9)
	assert.InDelta(t, 80.9, levels[2].Price, 1e-9)
	assert.InDelta(t, 69.1, levels[4].Price, 1e-9)
	assert.InDelta(t, 60.7, levels[5].Price, 1e-9)

	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i].Price, levels[i-1].Price, "strictly decreasing at %d", i)
	}
}

func TestFibonacciNoResult(t *testing.T) {
	t.Parallel()

	for _, tc := range [][2]float64{{50, 100}, {100, 100}, {0, 0}, {100, 0}, {math.NaN(), 1}} {
		_, ok := Fibonacci(tc[0], tc[1])
		assert.False(t, ok, "%v", tc)
	}
}

func TestBreakeven(t *testing.T) {
	t.Parallel()

	got, ok := Breakeven(100, 50, 250)
	require.True(t, ok)
	assert.InDelta(t, 5.0, got.LossPerShare, 1e-12)
	assert.InDelta(t, 105.0, got.BreakevenPrice, 1e-12)
	assert.InDelta(t, 50.0, got.AdditionalQuantity, 1e-12, "reduces to the original quantity")

	_, ok = Breakeven(100, 0, 250)
	assert.False(t, ok)
	_, ok = Breakeven(100, 50, -10)
	assert.False(t, ok)
}

func TestQuickSetup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		preset Preset
		stop   float64
		target float64
	}{
		{PresetScalp, 99.5, 101},
		{PresetSwing, 97, 109},
		{PresetDCA, 85, 150},
	}
	for _, tt := range tests {
		got, ok := QuickSetup(100, tt.preset)
		require.True(t, ok)
		assert.InDelta(t, tt.stop, got.Stop, 1e-9, string(tt.preset))
		assert.InDelta(t, tt.target, got.TakeProfit, 1e-9, string(tt.preset))
	}

	got, ok := QuickSetup(33.333, PresetSwing)
	require.True(t, ok)
	assert.Equal(t, 32.33, got.Stop, "rounded to cents")
	assert.Equal(t, 36.33, got.TakeProfit)

	_, ok = QuickSetup(0, PresetScalp)
	assert.False(t, ok)
	_, ok = QuickSetup(100, Preset("hodl"))
	assert.False(t, ok)
}

func TestParsePreset(t *testing.T) {
	t.Parallel()

	p, err := ParsePreset(" Swing ")
	require.NoError(t, err)
	assert.Equal(t, PresetSwing, p)

	_, err = ParsePreset("hodl")
	assert.Error(t, err)
}

func TestATRSetup(t *testing.T) {
	t.Parallel()

	long, ok := ATRSetup(100, 2, 1.5, 2, true)
	require.True(t, ok)
	assert.Equal(t, 97.0, long.Stop)
	assert.Equal(t, 106.0, long.TakeProfit)

	short, ok := ATRSetup(100, 2, 1.5, 2, false)
	require.True(t, ok)
	assert.Equal(t, 103.0, short.Stop)
	assert.Equal(t, 94.0, short.TakeProfit)

	_, ok = ATRSetup(100, 0, 1.5, 2, true)
	assert.False(t, ok)
	_, ok = ATRSetup(10, 20, 1, 2, true)
	assert.False(t, ok, "stop would be below zero")
	_, ok = ATRSetup(10, 4, 1, 3, false)
	assert.False(t, ok, "short target would be below zero")
}
