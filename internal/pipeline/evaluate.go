package pipeline

import (
	"context"
	"time"

	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/okieraised/udashboard/internal/ir"
	"golang.org/x/sync/errgroup"
)

// EvaluateGauge runs the value-resolution pipeline for one gauge: logic to
// state, state to style, then the kind-specific mapping. A gauge whose
// channel cannot be resolved carries the error and no output.
func EvaluateGauge(cfg *ir.Config, g ir.Gauge, lookup ir.LookupFunc, elapsed time.Duration) GaugeFrame {
	out := GaugeFrame{
		Name:    g.Name,
		Channel: g.Channel,
		Label:   labelView(g.Label),
		Bounds:  g.Bounds,
	}
	if g.Kind != nil {
		out.Kind = g.Kind.Kind()
	}
	if ch, ok := cfg.Channel(g.Channel); ok {
		out.Units = ir.UnitName(ch.Units)
	}

	value, ok := lookup(g.Channel)
	if !ok {
		out.Error = cerrors.ErrUnknownChannel.WithMessage("unknown channel [%s]", g.Channel).Error()
		return out
	}
	out.Value = value

	state, err := cfg.Logic.Evaluate(g.Channel, lookup)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	out.State = state

	style, err := g.Styles.Resolve(state)
	if err != nil {
		style = ir.DebugStyle()
		out.Error = err.Error()
	}
	resolved := style.At(elapsed)
	out.Style = &resolved

	switch k := g.Kind.(type) {
	case ir.Dial:
		out.Scale = scaleView(k.Scale, value)
		angle := k.Scale.ToAngle(value)
		out.Scale.Angle = &angle
	case ir.VerticalBar, ir.HorizontalBar, ir.VerticalWedge, ir.HorizontalWedge:
		scale, _ := ir.ScaleOf(k)
		out.Scale = scaleView(scale, value)
	case ir.Text:
		text := ""
		if k.Format != nil {
			text = k.Format.FormatValue(value)
		}
		out.Text = &TextView{Value: text, Style: k.Style}
	case ir.IdiotLight:
		lamp, image := lampView(k.Lamp)
		out.Light = &LightView{Lit: state.IsAlarm(), Lamp: lamp, Image: image}
	default:
		out.Error = cerrors.ErrInvalidDashboard.WithMessage("gauge [%s] has unsupported kind %T", g.Name, g.Kind).Error()
	}
	return out
}

func scaleView(s ir.Scale, value float64) *ScaleView {
	return &ScaleView{
		Min:       s.Min,
		Max:       s.Max,
		Percent:   s.ToPercent(value),
		Style:     s.Style,
		Divisions: divisionsView(s.Divisions),
	}
}

// EvaluateFrame evaluates every gauge on every page against one lookup. At
// most parallel gauges run at once; parallel <= 0 means no limit. The result
// keeps page and gauge order.
func EvaluateFrame(ctx context.Context, cfg *ir.Config, lookup ir.LookupFunc, elapsed time.Duration, parallel int) ([][]GaugeFrame, error) {
	pages := make([][]GaugeFrame, len(cfg.Pages))
	for p, page := range cfg.Pages {
		pages[p] = make([]GaugeFrame, len(page))
	}

	eg, egCtx := errgroup.WithContext(ctx)
	if parallel > 0 {
		eg.SetLimit(parallel)
	}
	for p, page := range cfg.Pages {
		for i := range page {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				pages[p][i] = EvaluateGauge(cfg, page[i], lookup, elapsed)
				return nil
			})
		}
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
