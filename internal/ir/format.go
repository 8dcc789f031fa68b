package ir

import (
	"fmt"
	"math"
	"strconv"
)

// Format turns a channel value into display text for Text gauges.
// Variants: Integer, Decimal, Time.
type Format interface {
	FormatValue(value float64) string
	isFormat()
}

// Integer renders the value truncated toward zero, right-justified in Width
// columns.
type Integer struct {
	Width int `json:"width"`
}

// Decimal renders fixed-point text with exactly DecDigits fraction digits and an
// integer part (sign included) right-justified in at least IntDigits columns.
type Decimal struct {
	IntDigits int `json:"int_digits"`
	DecDigits int `json:"dec_digits"`
}

// Time renders value*Scale seconds as H:MM:SS.ss.
type Time struct {
	Scale float64 `json:"scale"`
}

func (Integer) isFormat() {}
func (Decimal) isFormat() {}
func (Time) isFormat()    {}

func (f Integer) FormatValue(value float64) string {
	return fmt.Sprintf("%*d", max(f.Width, 0), truncInt32(value))
}

func (f Decimal) FormatValue(value float64) string {
	dec := max(f.DecDigits, 0)
	width := max(f.IntDigits, 0)
	if dec > 0 {
		width += 1 + dec
	}
	return fmt.Sprintf("%*.*f", width, dec, value)
}

// FormatValue renders H:MM:SS.ss. A negative duration carries a single
// leading sign on the hours field.
func (f Time) FormatValue(value float64) string {
	seconds := value * f.Scale
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	whole := truncInt32(seconds)
	hundredths := truncInt32(seconds * 100)
	minutes := whole / 60
	hours := minutes / 60

	return fmt.Sprintf("%2s:%02d:%02d.%02d", sign+strconv.Itoa(int(hours)), minutes%60, whole%60, hundredths%100)
}

// truncInt32 truncates toward zero, saturating at the int32 range. NaN maps to 0.
func truncInt32(v float64) int32 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	case v <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}
