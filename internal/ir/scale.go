package ir

import (
	"fmt"
	"math"
)

// DialSweep is the total angle covered by a dial, in radians (225 degrees).
const DialSweep = 1.25 * math.Pi

// GaugeStyle selects how a graphical gauge draws its value.
type GaugeStyle int

const (
	IndicatorOnly GaugeStyle = iota
	Outline
	Filled
	Dashed
)

func (s GaugeStyle) String() string {
	switch s {
	case IndicatorOnly:
		return "indicator_only"
	case Outline:
		return "outline"
	case Filled:
		return "filled"
	case Dashed:
		return "dashed"
	default:
		return fmt.Sprintf("gauge_style(%d)", int(s))
	}
}

func (s GaugeStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GaugeStyle) UnmarshalText(text []byte) error {
	for v := IndicatorOnly; v <= Dashed; v++ {
		if v.String() == string(text) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown gauge style %q", text)
}

func (s GaugeStyle) valid() bool {
	return s >= IndicatorOnly && s <= Dashed
}

// Divisions is tick metadata handed to the renderer unchanged.
// Variants: NoDivisions, Uniform, MajorMinor.
type Divisions interface {
	isDivisions()
}

type NoDivisions struct{}

// Uniform places one unlabeled tick at each position.
type Uniform struct {
	Ticks []float64
}

// MajorTick is a labeled tick.
type MajorTick struct {
	Label    Label
	Position float64
}

type MajorMinor struct {
	Major []MajorTick
	Minor []float64
}

func (NoDivisions) isDivisions() {}
func (Uniform) isDivisions()     {}
func (MajorMinor) isDivisions()  {}

// Scale maps a channel value onto a gauge's travel. Callers must keep Max > Min,
// which Config.Validate enforces.
type Scale struct {
	Min       float64
	Max       float64
	Divisions Divisions
	Style     GaugeStyle
}

func (s Scale) Range() float64 {
	return s.Max - s.Min
}

// ToPercent returns the value's position along the scale, clamped to [0, 1].
func (s Scale) ToPercent(value float64) float64 {
	return clamp((value-s.Min)/s.Range(), 0, 1)
}

// ToPercentLiteral clamps the raw ratio against the scale endpoints instead of
// [0, 1]. It only agrees with ToPercent for scales whose range contains [0, 1].
func (s Scale) ToPercentLiteral(value float64) float64 {
	return clamp((value-s.Min)/s.Range(), s.Min, s.Max)
}

// ToAngle maps the value onto the dial sweep, centered on 0 radians.
func (s Scale) ToAngle(value float64) float64 {
	return DialSweep * (s.ToPercent(value) - 0.5)
}

// clamp bounds x to [lo, hi]. NaN lands on lo.
func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) || x < lo {
		x = lo
	}
	if x > hi {
		x = hi
	}
	return x
}
