// Package dashboard holds the dashboard compiled into the agent binary.
package dashboard

import "github.com/okieraised/udashboard/internal/ir"

const (
	ChannelRPM         = "rpm"
	ChannelCoolant     = "coolant_temp"
	ChannelOilPressure = "oil_pressure"
	ChannelBattery     = "battery_volts"
	ChannelLapTime     = "lap_time"
)

var (
	white   = ir.RGBA(1, 1, 1, 1)
	grey    = ir.RGBA(0.35, 0.35, 0.35, 1)
	green   = ir.RGBA(0.1, 0.85, 0.2, 1)
	amber   = ir.RGBA(1, 0.7, 0, 1)
	red     = ir.RGBA(1, 0.1, 0.1, 1)
	panelBg = ir.RGBA(0.05, 0.05, 0.08, 1)
)

const (
	screenWidth  = 800
	screenHeight = 480
	margin       = 8
)

// EngineBay returns a two page panel: gauges first, warnings and timing second.
// Every call builds a fresh value.
func EngineBay() *ir.Config {
	screen := ir.Bounds{Width: screenWidth, Height: screenHeight}
	left := ir.Bounds{X: 0, Y: 0, Width: screenWidth / 2, Height: screenHeight}.Inset(margin)
	upperRight := ir.Bounds{X: screenWidth / 2, Y: 0, Width: screenWidth / 2, Height: screenHeight / 2}.Inset(margin)
	lowerRight := ir.Bounds{X: screenWidth / 2, Y: screenHeight / 2, Width: screenWidth / 2, Height: screenHeight / 2}.Inset(margin)

	return &ir.Config{
		Screen: ir.Screen{Width: screen.Width, Height: screen.Height},
		Channels: []ir.Channel{
			{Name: ChannelRPM, Units: ir.NamedUnit{Name: "rpm"}},
			// Sender reports tenths of a degree with a 40 degree offset.
			{Name: ChannelCoolant, Units: ir.NamedUnit{Name: "C"}, Transfer: ir.Linear{Slope: 0.1, Offset: -40}},
			// Pressure sender curve, volts to kPa.
			{Name: ChannelOilPressure, Units: ir.NamedUnit{Name: "kPa"}, Transfer: ir.Polynomial{Coefficients: []float64{-12.5, 125, 2.5}}},
			{Name: ChannelBattery, Units: ir.NamedUnit{Name: "V"}},
			{Name: ChannelLapTime, Units: ir.NamedUnit{Name: "s"}, Transfer: ir.ScaleBy{Factor: 0.001}},
		},
		Pages: [][]ir.Gauge{
			{
				{
					Name:    "tachometer",
					Label:   ir.Sized{Value: "RPM", Size: 18}.Append(" x1000"),
					Kind:    ir.Dial{Scale: ir.Scale{Min: 0, Max: 8000, Divisions: tachDivisions(), Style: ir.Filled}},
					Channel: ChannelRPM,
					Bounds:  left,
					Styles: ir.StyleSet{
						ir.Default:          needleStyle(white),
						ir.Alarm("redline"): needleStyle(red),
						ir.Alarm("shift"):   {Background: ir.FastBlink{Color: amber}, Foreground: ir.Solid{Color: white}, Indicator: ir.Solid{Color: amber}},
					},
				},
				{
					Name:    "coolant",
					Label:   ir.Plain{Value: "Coolant"}.Append(" C"),
					Kind:    ir.VerticalBar{Scale: ir.Scale{Min: 40, Max: 130, Divisions: ir.Uniform{Ticks: []float64{40, 70, 100, 130}}, Style: ir.Outline}},
					Channel: ChannelCoolant,
					Bounds:  ir.Bounds{X: upperRight.X, Y: upperRight.Y, Width: upperRight.Width / 3, Height: upperRight.Height},
					Styles: ir.StyleSet{
						ir.Default:      needleStyle(green),
						ir.Alarm("hot"): {Background: ir.SlowBlink{Color: red}, Foreground: ir.Solid{Color: white}, Indicator: ir.Solid{Color: red}},
					},
				},
				{
					Name:    "oil_pressure",
					Label:   ir.Styled{Value: "Oil", Size: 14, Color: amber},
					Kind:    ir.HorizontalWedge{Scale: ir.Scale{Min: 0, Max: 700, Divisions: ir.NoDivisions{}, Style: ir.Dashed}},
					Channel: ChannelOilPressure,
					Bounds:  ir.Bounds{X: upperRight.X + upperRight.Width/3, Y: upperRight.Y, Width: upperRight.Width * 2 / 3, Height: upperRight.Height},
					Styles: ir.StyleSet{
						ir.Default:      needleStyle(white),
						ir.Alarm("low"): {Background: ir.FastBlink{Color: red}, Foreground: ir.Solid{Color: white}, Indicator: ir.Solid{Color: red}},
					},
				},
			},
			{
				{
					Name:    "battery",
					Label:   ir.NoLabel{}.Append("BATT"),
					Kind:    ir.IdiotLight{Lamp: ir.RoundedRectLamp{}},
					Channel: ChannelBattery,
					Bounds:  upperRight,
					Styles: ir.StyleSet{
						ir.Default:      {Background: ir.Solid{Color: panelBg}, Foreground: ir.Solid{Color: grey}, Indicator: ir.Hidden{}},
						ir.Alarm("low"): {Background: ir.Solid{Color: panelBg}, Foreground: ir.Solid{Color: white}, Indicator: ir.SlowBlink{Color: amber}},
					},
				},
				{
					Name:    "lap_timer",
					Label:   ir.Plain{Value: "Lap"},
					Kind:    ir.Text{Format: ir.Time{Scale: 1}, Style: ir.IndicatorOnly},
					Channel: ChannelLapTime,
					Bounds:  lowerRight,
					Styles:  ir.StyleSet{ir.Default: needleStyle(white)},
				},
			},
		},
		Logic: ir.Logic{
			{Channel: ChannelRPM, Test: ir.GreaterThan{Limit: 7200}, Result: ir.Alarm("redline")},
			{Channel: ChannelRPM, Test: ir.Between{Lo: 6500, Hi: 7200}, Result: ir.Alarm("shift")},
			{Channel: ChannelCoolant, Test: ir.GreaterThan{Limit: 110}, Result: ir.Alarm("hot")},
			{Channel: ChannelOilPressure, Test: ir.LessThan{Limit: 100}, Result: ir.Alarm("low")},
			{Channel: ChannelBattery, Test: ir.LessThan{Limit: 11.8}, Result: ir.Alarm("low")},
		},
	}
}

func needleStyle(c ir.Color) ir.Style {
	return ir.Style{Background: ir.Solid{Color: panelBg}, Foreground: ir.Solid{Color: white}, Indicator: ir.Solid{Color: c}}
}

func tachDivisions() ir.Divisions {
	major := make([]ir.MajorTick, 0, 9)
	minor := make([]float64, 0, 8)
	for k := 0; k <= 8; k++ {
		major = append(major, ir.MajorTick{Label: ir.Sized{Value: string(rune('0' + k)), Size: 12}, Position: float64(k * 1000)})
		if k < 8 {
			minor = append(minor, float64(k*1000+500))
		}
	}
	return ir.MajorMinor{Major: major, Minor: minor}
}
