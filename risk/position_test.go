package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPositionSizeChain(t *testing.T) {
	t.Parallel()

	got, ok := PositionSize(SizeInputs{
		AccountSize:     10000,
		RiskPercent:     2,
		EntryPrice:      50000,
		StopPrice:       48000,
		TakeProfitPrice: 54000,
	})
	require.True(t, ok)

	assert.InDelta(t, 200.0, got.RiskAmount, 1e-12)
	assert.InDelta(t, 2000.0, got.StopDistance, 1e-12)
	assert.InDelta(t, 0.1, got.PositionSize, 1e-15)
	assert.InDelta(t, 0.000002, got.Shares, 1e-18)
	assert.InDelta(t, 0.008, got.RewardAmount, 1e-15)
	assert.InDelta(t, 0.00004, got.RiskRewardRatio, 1e-18)
}

func TestPositionSizeWithoutTarget(t *testing.T) {
	t.Parallel()

	got, ok := PositionSize(SizeInputs{AccountSize: 10000, RiskPercent: 2, EntryPrice: 50000, StopPrice: 48000})
	require.True(t, ok)
	assert.Equal(t, 0.0, got.RewardAmount)
	assert.Equal(t, 0.0, got.RiskRewardRatio)
}

func TestPositionSizeStopAboveEntry(t *testing.T) {
	t.Parallel()

	got, ok := PositionSize(SizeInputs{AccountSize: 2000, RiskPercent: 0.5, EntryPrice: 100, StopPrice: 110})
	require.True(t, ok)
	assert.InDelta(t, 10.0, got.RiskAmount, 1e-12)
	assert.InDelta(t, 1.0, got.PositionSize, 1e-12)
	assert.InDelta(t, 0.01, got.Shares, 1e-12)
}

func TestPositionSizeNoResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   SizeInputs
	}{
		{"stop equals entry", SizeInputs{AccountSize: 1000, RiskPercent: 1, EntryPrice: 100, StopPrice: 100}},
		{"zero account", SizeInputs{RiskPercent: 1, EntryPrice: 100, StopPrice: 90}},
		{"negative risk", SizeInputs{AccountSize: 1000, RiskPercent: -1, EntryPrice: 100, StopPrice: 90}},
		{"missing stop", SizeInputs{AccountSize: 1000, RiskPercent: 1, EntryPrice: 100}},
		{"nan entry", SizeInputs{AccountSize: 1000, RiskPercent: 1, EntryPrice: math.NaN(), StopPrice: 90}},
		{"inf account", SizeInputs{AccountSize: math.Inf(1), RiskPercent: 1, EntryPrice: 100, StopPrice: 90}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := PositionSize(tt.in)
			assert.False(t, ok)
			assert.Equal(t, SizeResult{}, got)
		})
	}
}

func TestPositionSizeIsIdempotent(t *testing.T) {
	t.Parallel()

	in := SizeInputs{AccountSize: 12345.67, RiskPercent: 1.3, EntryPrice: 1.0851, StopPrice: 1.0831, TakeProfitPrice: 1.0891}
	a, _ := PositionSize(in)
	b, _ := PositionSize(in)
	assert.Equal(t, math.Float64bits(a.Shares), math.Float64bits(b.Shares))
	assert.Equal(t, a, b)
}

func TestRR(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 2.0, RR(100, 95, 110), 1e-12)
	assert.InDelta(t, 3.0, RR(100, 105, 85), 1e-12)
	assert.Equal(t, 0.0, RR(100, 100, 110))
}

func TestRiskReward(t *testing.T) {
	t.Parallel()

	got, ok := RiskReward(100, 95, 110)
	require.True(t, ok)
	assert.InDelta(t, 5.0, got.Risk, 1e-12)
	assert.InDelta(t, 10.0, got.Reward, 1e-12)
	assert.InDelta(t, 2.0, got.Ratio, 1e-12)

	_, ok = RiskReward(100, 100, 110)
	assert.False(t, ok)
	_, ok = RiskReward(100, 95, 0)
	assert.False(t, ok)
}

func TestUnitsForRisk(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 20.0, UnitsForRisk(100, 50, 45), 1e-12)
	assert.Equal(t, 0.0, UnitsForRisk(100, 50, 50))
	assert.Equal(t, 0.0, UnitsForRisk(0, 50, 45))
}

func TestRiskPct(t *testing.T) {
	t.Parallel()

	pct, ok := RiskPct(200, 10000)
	require.True(t, ok)
	assert.InDelta(t, 2.0, pct, 1e-12)

	_, ok = RiskPct(200, 0)
	assert.False(t, ok)
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	policy := Policy{
		RiskWarningLevel: 5,
		MaxDailyTrades:   10,
		MinRR:            1.5,
		SessionStart:     "09:00",
		SessionEnd:       "16:00",
	}
	at := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }

	tests := []struct {
		name  string
		plan  Plan
		codes []string
	}{
		{
			name:  "clean",
			plan:  Plan{Now: at(10, 0), AccountSize: 10000, Units: 10, Entry: 100, Stop: 95, TakeProfit: 110, TradesToday: 2},
			codes: nil,
		},
		{
			name:  "missing stop",
			plan:  Plan{AccountSize: 10000, Units: 10, Entry: 100},
			codes: []string{CodeNoStopOrEntry},
		},
		{
			name:  "no units",
			plan:  Plan{AccountSize: 10000, Entry: 100, Stop: 95},
			codes: []string{CodeNoUnits},
		},
		{
			name:  "risk too high",
			plan:  Plan{AccountSize: 1000, Units: 20, Entry: 100, Stop: 95, TakeProfit: 110},
			codes: []string{CodeRiskTooHigh},
		},
		{
			name:  "rr too low and too many trades",
			plan:  Plan{AccountSize: 10000, Units: 1, Entry: 100, Stop: 95, TakeProfit: 102, TradesToday: 10},
			codes: []string{CodeRRTooLow, CodeMaxDailyTrades},
		},
		{
			name:  "outside session",
			plan:  Plan{Now: at(17, 30), AccountSize: 10000, Units: 1, Entry: 100, Stop: 95},
			codes: []string{CodeOutsideSession},
		},
		{
			name:  "no account",
			plan:  Plan{Units: 1, Entry: 100, Stop: 95},
			codes: []string{CodeNoAccount},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := Evaluate(policy, tt.plan)
			assert.Equal(t, len(tt.codes) == 0, d.Allowed)
			var got []string
			for _, v := range d.Violations {
				got = append(got, v.Code)
			}
			assert.Equal(t, tt.codes, got)
		})
	}
}

func TestEvaluateFillsPlannedFigures(t *testing.T) {
	t.Parallel()

	d := Evaluate(Policy{}, Plan{AccountSize: 10000, Units: 10, Entry: 100, Stop: 95, TakeProfit: 115})
	assert.True(t, d.Allowed)
	assert.InDelta(t, 50.0, d.PlannedRisk, 1e-12)
	assert.InDelta(t, 0.5, d.PlannedRiskPct, 1e-12)
	assert.InDelta(t, 3.0, d.PlannedRR, 1e-12)
	assert.False(t, d.Has(CodeRiskTooHigh))
}

func TestInSession(t *testing.T) {
	t.Parallel()

	at := func(h, m int) time.Time { return time.Date(2024, 1, 15, h, m, 0, 0, time.UTC) }

	in, err := InSession(at(9, 0), "09:00", "16:00")
	require.NoError(t, err)
	assert.True(t, in)

	in, _ = InSession(at(16, 0), "09:00", "16:00")
	assert.False(t, in)

	in, _ = InSession(at(23, 15), "22:00", "02:00")
	assert.True(t, in)
	in, _ = InSession(at(1, 59), "22:00", "02:00")
	assert.True(t, in)
	in, _ = InSession(at(12, 0), "22:00", "02:00")
	assert.False(t, in)

	in, _ = InSession(at(3, 0), "", "")
	assert.True(t, in)

	_, err = InSession(at(3, 0), "9am", "16:00")
	assert.Error(t, err)
}
