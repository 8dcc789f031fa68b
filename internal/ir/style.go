package ir

import (
	"fmt"
	"math"
	"time"

	"github.com/okieraised/udashboard/internal/cerrors"
)

const (
	SlowBlinkPeriod = time.Second            // 1 Hz
	FastBlinkPeriod = 250 * time.Millisecond // 4 Hz
)

// Color components are nominally in [0, 1].
type Color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// Hex returns the color as #rrggbbaa, clamping each component to [0, 1].
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", channelByte(c.R), channelByte(c.G), channelByte(c.B), channelByte(c.A))
}

func channelByte(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

// Paint is the drawing decision for one pattern at one instant. Hex carries
// the same color in #rrggbbaa form for render backends.
type Paint struct {
	Visible bool   `json:"visible"`
	Color   Color  `json:"color"`
	Hex     string `json:"hex,omitempty"`
}

func drawn(c Color) Paint {
	return Paint{Visible: true, Color: c, Hex: c.Hex()}
}

var notDrawn = Paint{}

// Pattern is a time-varying color treatment.
// Variants: Hidden, Solid, SlowBlink, FastBlink.
type Pattern interface {
	// At returns the paint for the given time since process start.
	At(elapsed time.Duration) Paint
	isPattern()
}

type Hidden struct{}

type Solid struct {
	Color Color
}

type SlowBlink struct {
	Color Color
}

type FastBlink struct {
	Color Color
}

func (Hidden) At(time.Duration) Paint { return notDrawn }

func (p Solid) At(time.Duration) Paint { return drawn(p.Color) }

func (p SlowBlink) At(elapsed time.Duration) Paint {
	return blink(p.Color, elapsed, SlowBlinkPeriod)
}

func (p FastBlink) At(elapsed time.Duration) Paint {
	return blink(p.Color, elapsed, FastBlinkPeriod)
}

func (Hidden) isPattern()    {}
func (Solid) isPattern()     {}
func (SlowBlink) isPattern() {}
func (FastBlink) isPattern() {}

// blink is on for the first half of every period.
func blink(c Color, elapsed, period time.Duration) Paint {
	phase := elapsed % period
	if phase < 0 {
		phase += period
	}
	if phase < period/2 {
		return drawn(c)
	}
	return notDrawn
}

// Style is the visual treatment of a gauge in one state.
type Style struct {
	Background Pattern
	Foreground Pattern
	Indicator  Pattern
}

// DebugStyle is the loud fallback used to flag gauges that could not be styled.
func DebugStyle() Style {
	return Style{
		Background: SlowBlink{Color: RGBA(1, 0, 0, 1)},
		Foreground: Solid{Color: RGBA(1, 0, 0, 1)},
		Indicator:  FastBlink{Color: RGBA(1, 0, 1, 1)},
	}
}

// ResolvedStyle holds the three paints of a style at one instant.
type ResolvedStyle struct {
	Background Paint `json:"background"`
	Foreground Paint `json:"foreground"`
	Indicator  Paint `json:"indicator"`
}

func (s Style) At(elapsed time.Duration) ResolvedStyle {
	return ResolvedStyle{
		Background: patternAt(s.Background, elapsed),
		Foreground: patternAt(s.Foreground, elapsed),
		Indicator:  patternAt(s.Indicator, elapsed),
	}
}

// patternAt treats a nil pattern as Hidden.
func patternAt(p Pattern, elapsed time.Duration) Paint {
	if p == nil {
		return notDrawn
	}
	return p.At(elapsed)
}

// StyleSet maps each state a gauge can be in to its style.
type StyleSet map[State]Style

// Resolve returns the style for state, falling back to the Default entry.
func (s StyleSet) Resolve(state State) (Style, error) {
	if style, ok := s[state]; ok {
		return style, nil
	}
	if style, ok := s[Default]; ok {
		return style, nil
	}
	return Style{}, cerrors.ErrMissingDefaultStyle
}
