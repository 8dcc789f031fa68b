package pipeline

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/okieraised/udashboard/internal/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = ir.RGBA(1, 1, 1, 1)
	red   = ir.RGBA(1, 0, 0, 1)
	amber = ir.RGBA(1, 0.75, 0, 1)
)

func plainStyles() ir.StyleSet {
	return ir.StyleSet{ir.Default: {Foreground: ir.Solid{Color: white}, Indicator: ir.Solid{Color: white}}}
}

func testConfig() *ir.Config {
	return &ir.Config{
		Screen: ir.Screen{Width: 800, Height: 480},
		Channels: []ir.Channel{
			{Name: "rpm", Units: ir.NamedUnit{Name: "rpm"}},
			{Name: "coolant", Units: ir.NamedUnit{Name: "C"}},
			{Name: "volts", Units: ir.NamedUnit{Name: "V"}},
			{Name: "lap", Units: ir.NoUnit{}},
		},
		Pages: [][]ir.Gauge{
			{
				{
					Name:    "tach",
					Label:   ir.Sized{Value: "RPM", Size: 14},
					Kind:    ir.Dial{Scale: ir.Scale{Min: 0, Max: 8000, Divisions: ir.Uniform{Ticks: []float64{0, 4000, 8000}}, Style: ir.Filled}},
					Channel: "rpm",
					Bounds:  ir.Bounds{X: 10, Y: 10, Width: 200, Height: 200},
					Styles:  plainStyles(),
				},
				{
					Name:    "coolant",
					Label:   ir.Plain{Value: "Water"},
					Kind:    ir.VerticalBar{Scale: ir.Scale{Min: 40, Max: 140, Divisions: ir.NoDivisions{}, Style: ir.Outline}},
					Channel: "coolant",
					Styles: ir.StyleSet{
						ir.Default:      {Foreground: ir.Solid{Color: white}},
						ir.Alarm("hot"): {Background: ir.SlowBlink{Color: red}, Foreground: ir.Solid{Color: white}},
					},
				},
			},
			{
				{
					Name:    "battery",
					Label:   ir.NoLabel{},
					Kind:    ir.IdiotLight{Lamp: ir.RoundedRectLamp{}},
					Channel: "volts",
					Styles: ir.StyleSet{
						ir.Default:      {Indicator: ir.Hidden{}},
						ir.Alarm("low"): {Indicator: ir.Solid{Color: amber}},
					},
				},
				{
					Name:    "lap",
					Label:   ir.Styled{Value: "Lap", Size: 12, Color: amber},
					Kind:    ir.Text{Format: ir.Time{Scale: 1}, Style: ir.IndicatorOnly},
					Channel: "lap",
					Styles:  plainStyles(),
				},
			},
		},
		Logic: ir.Logic{
			{Channel: "coolant", Test: ir.GreaterThan{Limit: 110}, Result: ir.Alarm("hot")},
			{Channel: "volts", Test: ir.LessThan{Limit: 11.5}, Result: ir.Alarm("low")},
		},
	}
}

func lookupOf(values map[string]float64) ir.LookupFunc {
	return func(channel string) (float64, bool) {
		v, ok := values[channel]
		return v, ok
	}
}

func TestEvaluateGauge_Dial(t *testing.T) {
	cfg := testConfig()
	got := EvaluateGauge(cfg, cfg.Pages[0][0], lookupOf(map[string]float64{"rpm": 4000}), 0)

	require.Empty(t, got.Error)
	assert.Equal(t, ir.KindDial, got.Kind)
	assert.Equal(t, "rpm", got.Units)
	assert.Equal(t, LabelView{Text: "RPM", Size: 14}, got.Label)
	assert.Equal(t, ir.Default, got.State)
	require.NotNil(t, got.Scale)
	assert.InDelta(t, 0.5, got.Scale.Percent, 1e-12)
	require.NotNil(t, got.Scale.Angle)
	assert.InDelta(t, 0, *got.Scale.Angle, 1e-12)
	assert.Equal(t, DivisionsView{Kind: DivisionsUniform, Ticks: []float64{0, 4000, 8000}}, got.Scale.Divisions)
	assert.Equal(t, ir.Filled, got.Scale.Style)
	assert.Nil(t, got.Text)
	assert.Nil(t, got.Light)

	over := EvaluateGauge(cfg, cfg.Pages[0][0], lookupOf(map[string]float64{"rpm": 9000}), 0)
	assert.Equal(t, 1.0, over.Scale.Percent)
	assert.InDelta(t, 0.625*math.Pi, *over.Scale.Angle, 1e-12)
}

func TestEvaluateGauge_BarAlarmBlinks(t *testing.T) {
	cfg := testConfig()
	lookup := lookupOf(map[string]float64{"coolant": 120})

	on := EvaluateGauge(cfg, cfg.Pages[0][1], lookup, 100*time.Millisecond)
	require.Empty(t, on.Error)
	assert.Equal(t, ir.Alarm("hot"), on.State)
	assert.Nil(t, on.Scale.Angle)
	assert.InDelta(t, 0.8, on.Scale.Percent, 1e-12)
	assert.Equal(t, DivisionsView{Kind: DivisionsNone}, on.Scale.Divisions)
	assert.True(t, on.Style.Background.Visible)
	assert.Equal(t, red, on.Style.Background.Color)
	assert.Equal(t, red.Hex(), on.Style.Background.Hex)

	off := EvaluateGauge(cfg, cfg.Pages[0][1], lookup, 600*time.Millisecond)
	assert.False(t, off.Style.Background.Visible)
	assert.Empty(t, off.Style.Background.Hex)
	assert.True(t, off.Style.Foreground.Visible)
}

func TestEvaluateGauge_IdiotLight(t *testing.T) {
	cfg := testConfig()
	g := cfg.Pages[1][0]

	low := EvaluateGauge(cfg, g, lookupOf(map[string]float64{"volts": 11}), 0)
	require.NotNil(t, low.Light)
	assert.True(t, low.Light.Lit)
	assert.Equal(t, "rounded_rect", low.Light.Lamp)
	assert.Equal(t, amber, low.Style.Indicator.Color)

	ok := EvaluateGauge(cfg, g, lookupOf(map[string]float64{"volts": 13.8}), 0)
	assert.False(t, ok.Light.Lit)
	assert.False(t, ok.Style.Indicator.Visible)
}

func TestEvaluateGauge_Text(t *testing.T) {
	cfg := testConfig()
	got := EvaluateGauge(cfg, cfg.Pages[1][1], lookupOf(map[string]float64{"lap": 75.25}), 0)

	require.NotNil(t, got.Text)
	assert.Equal(t, " 0:01:15.25", got.Text.Value)
	assert.Equal(t, ir.IndicatorOnly, got.Text.Style)
	require.NotNil(t, got.Label.Color)
	assert.Equal(t, amber, *got.Label.Color)
	assert.Equal(t, "", got.Units)
}

func TestEvaluateGauge_UnknownChannel(t *testing.T) {
	cfg := testConfig()
	g := cfg.Pages[0][0]
	g.Channel = "ghost"

	got := EvaluateGauge(cfg, g, lookupOf(map[string]float64{"rpm": 1}), 0)
	assert.Contains(t, got.Error, "ghost")
	assert.Nil(t, got.Style)
	assert.Nil(t, got.Scale)
	assert.Equal(t, "tach", got.Name)
}

func TestEvaluateGauge_MissingDefaultStyle(t *testing.T) {
	cfg := testConfig()
	g := cfg.Pages[0][0]
	g.Styles = nil

	got := EvaluateGauge(cfg, g, lookupOf(map[string]float64{"rpm": 1}), 0)
	assert.NotEmpty(t, got.Error)
	require.NotNil(t, got.Style)
	assert.Equal(t, ir.DebugStyle().At(0), *got.Style)
	assert.NotNil(t, got.Scale)
}

func TestEvaluateFrame(t *testing.T) {
	cfg := testConfig()
	lookup := lookupOf(map[string]float64{"rpm": 2000, "coolant": 90, "volts": 12.6, "lap": 3})

	for _, parallel := range []int{0, 1, 3} {
		pages, err := EvaluateFrame(context.Background(), cfg, lookup, 0, parallel)
		require.NoError(t, err)
		require.Len(t, pages, 2)
		require.Len(t, pages[0], 2)
		require.Len(t, pages[1], 2)
		assert.Equal(t, "tach", pages[0][0].Name)
		assert.Equal(t, "coolant", pages[0][1].Name)
		assert.Equal(t, "battery", pages[1][0].Name)
		assert.Equal(t, "lap", pages[1][1].Name)
		for _, page := range pages {
			for _, g := range page {
				assert.Empty(t, g.Error, g.Name)
			}
		}
	}
}

func TestEvaluateFrame_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := EvaluateFrame(ctx, testConfig(), lookupOf(nil), 0, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrame_Page(t *testing.T) {
	frame := &Frame{Seq: 7, ElapsedMs: 12, Pages: [][]GaugeFrame{{{Name: "a"}}, {{Name: "b"}}}}

	page, ok := frame.Page(1)
	require.True(t, ok)
	assert.Equal(t, uint64(7), page.Seq)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, "b", page.Gauges[0].Name)

	_, ok = frame.Page(2)
	assert.False(t, ok)
	_, ok = frame.Page(-1)
	assert.False(t, ok)
}
