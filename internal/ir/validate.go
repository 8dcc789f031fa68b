package ir

import (
	"fmt"
	"math"

	"github.com/okieraised/udashboard/internal/cerrors"
	"go.uber.org/multierr"
)

// Validate checks the configuration invariants the pipeline relies on and
// reports every violation it finds.
func (c *Config) Validate() error {
	var err error

	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		err = multierr.Append(err, cerrors.ErrInvalidDashboard.WithMessage(
			"screen size must be positive, got %vx%v", c.Screen.Width, c.Screen.Height))
	}

	declared := make(map[string]struct{}, len(c.Channels))
	for i, ch := range c.Channels {
		if ch.Name == "" {
			err = multierr.Append(err, cerrors.ErrInvalidDashboard.WithMessage("channel #%d has no name", i))
			continue
		}
		if _, dup := declared[ch.Name]; dup {
			err = multierr.Append(err, cerrors.ErrInvalidDashboard.WithMessage("duplicate channel [%s]", ch.Name))
			continue
		}
		declared[ch.Name] = struct{}{}
	}

	for i, rule := range c.Logic {
		where := fmt.Sprintf("logic rule #%d", i)
		if _, ok := declared[rule.Channel]; !ok {
			err = multierr.Append(err, cerrors.ErrUnknownChannel.WithMessage(
				"%s references unknown channel [%s]", where, rule.Channel))
		}
		err = multierr.Append(err, validateTest(where, rule.Test))
	}

	for p, page := range c.Pages {
		for g, gauge := range page {
			where := fmt.Sprintf("gauge [%s] (page %d, #%d)", gauge.Name, p, g)
			if _, ok := declared[gauge.Channel]; !ok {
				err = multierr.Append(err, cerrors.ErrUnknownChannel.WithMessage(
					"%s references unknown channel [%s]", where, gauge.Channel))
			}
			if _, ok := gauge.Styles[Default]; !ok {
				err = multierr.Append(err, cerrors.ErrMissingDefaultStyle.WithMessage(
					"%s has no default style", where))
			}
			err = multierr.Append(err, validateKind(where, gauge.Kind))
		}
	}

	return err
}

func validateTest(where string, test Test) error {
	switch t := test.(type) {
	case Always, Never:
		return nil
	case LessThan:
		return validateOperand(where, "less_than", t.Limit)
	case GreaterThan:
		return validateOperand(where, "greater_than", t.Limit)
	case Equal:
		return validateOperand(where, "equal", t.Value)
	case Between:
		if math.IsNaN(t.Lo) || math.IsNaN(t.Hi) {
			return cerrors.ErrInvalidInterval.WithMessage("%s has between(%v, %v) with a NaN bound", where, t.Lo, t.Hi)
		}
		if t.Lo > t.Hi {
			return cerrors.ErrInvalidInterval.WithMessage("%s has between(%v, %v) with lo > hi", where, t.Lo, t.Hi)
		}
		return nil
	case nil:
		return cerrors.ErrInvalidDashboard.WithMessage("%s has no test", where)
	default:
		return cerrors.ErrInvalidDashboard.WithMessage("%s has unsupported test %T", where, test)
	}
}

// NaN compares false against everything, so a NaN operand would never match.
func validateOperand(where, test string, v float64) error {
	if math.IsNaN(v) {
		return cerrors.ErrInvalidDashboard.WithMessage("%s has %s(NaN)", where, test)
	}
	return nil
}

func validateKind(where string, kind GaugeType) error {
	switch k := kind.(type) {
	case Dial, VerticalBar, HorizontalBar, VerticalWedge, HorizontalWedge:
		scale, _ := ScaleOf(k)
		return validateScale(where, scale)
	case IdiotLight:
		if k.Lamp == nil {
			return cerrors.ErrInvalidDashboard.WithMessage("%s has no lamp", where)
		}
		return nil
	case Text:
		if !k.Style.valid() {
			return cerrors.ErrInvalidDashboard.WithMessage("%s has unknown gauge style %s", where, k.Style)
		}
		return validateFormat(where, k.Format)
	case nil:
		return cerrors.ErrInvalidDashboard.WithMessage("%s has no kind", where)
	default:
		return cerrors.ErrInvalidDashboard.WithMessage("%s has unsupported kind %T", where, kind)
	}
}

func validateScale(where string, s Scale) error {
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) || s.Max <= s.Min {
		return cerrors.ErrInvalidScale.WithMessage("%s has scale [%v, %v], max must exceed min", where, s.Min, s.Max)
	}
	if !s.Style.valid() {
		return cerrors.ErrInvalidDashboard.WithMessage("%s has unknown gauge style %s", where, s.Style)
	}
	return nil
}

func validateFormat(where string, f Format) error {
	switch v := f.(type) {
	case Integer:
		if v.Width < 0 {
			return cerrors.ErrInvalidFormat.WithMessage("%s has negative integer width %d", where, v.Width)
		}
	case Decimal:
		if v.IntDigits < 0 || v.DecDigits < 0 {
			return cerrors.ErrInvalidFormat.WithMessage("%s has negative decimal digits (%d, %d)", where, v.IntDigits, v.DecDigits)
		}
	case Time:
		if math.IsNaN(v.Scale) || math.IsInf(v.Scale, 0) {
			return cerrors.ErrInvalidFormat.WithMessage("%s has non-finite time scale", where)
		}
	case nil:
		return cerrors.ErrInvalidFormat.WithMessage("%s has no format", where)
	default:
		return cerrors.ErrInvalidFormat.WithMessage("%s has unsupported format %T", where, f)
	}
	return nil
}
