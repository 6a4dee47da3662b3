package tools

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/tradelab/pkg/num"
)

type BreakevenResult struct {
	LossPerShare       float64
	BreakevenPrice     float64
	AdditionalQuantity float64
}

// Breakeven computes the price that recovers lossAmount on qty units
// bought at entry.
//
// AdditionalQuantity is loss / (loss / qty), which is qty again; it is kept
// as computed because the journal shows it as the size to add when
// averaging down.
func Breakeven(entry, qty, lossAmount float64) (BreakevenResult, bool) {
	if !num.AllPositive(entry, qty, lossAmount) {
		return BreakevenResult{}, false
	}

	lossPerShare := lossAmount / qty
	return BreakevenResult{
		LossPerShare:       lossPerShare,
		BreakevenPrice:     entry + lossPerShare,
		AdditionalQuantity: lossAmount / lossPerShare,
	}, true
}

type Preset string

const (
	PresetScalp Preset = "scalp"
	PresetSwing Preset = "swing"
	PresetDCA   Preset = "dca"
)

type presetPct struct {
	stop   float64
	target float64
}

var presets = map[Preset]presetPct{
	PresetScalp: {stop: 0.5, target: 1},
	PresetSwing: {stop: 3, target: 9},
	PresetDCA:   {stop: 15, target: 50},
}

type Setup struct {
	Preset     Preset
	Stop       float64
	TakeProfit float64
}

// ParsePreset accepts a preset name in any case.
func ParsePreset(s string) (Preset, error) {
	p := Preset(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presets[p]; !ok {
		return "", fmt.Errorf("unknown preset %q (supported: scalp, swing, dca)", s)
	}
	return p, nil
}

// QuickSetup places a long stop below and a target above entry using the
// preset's percentages, rounded to cents.
func QuickSetup(entry float64, p Preset) (Setup, bool) {
	pct, ok := presets[p]
	if !ok || !num.AllPositive(entry) {
		return Setup{}, false
	}
	return Setup{
		Preset:     p,
		Stop:       round2(entry * (1 - pct.stop/100)),
		TakeProfit: round2(entry * (1 + pct.target/100)),
	}, true
}

func round2(x float64) float64 {
	v, err := num.Parse(num.Fixed(x, 2))
	if err != nil {
		return x
	}
	return v
}

// ATRSetup places the stop stopMult average true ranges from entry and the
// target rr times that distance on the other side. Short setups mirror it.
func ATRSetup(entry, atr, stopMult, rr float64, long bool) (Setup, bool) {
	if !num.AllPositive(entry, atr, stopMult, rr) {
		return Setup{}, false
	}
	dist := atr * stopMult
	if long {
		if dist >= entry {
			return Setup{}, false
		}
		return Setup{Stop: round2(entry - dist), TakeProfit: round2(entry + dist*rr)}, true
	}
	if dist*rr >= entry {
		return Setup{}, false
	}
	return Setup{Stop: round2(entry + dist), TakeProfit: round2(entry - dist*rr)}, true
}
