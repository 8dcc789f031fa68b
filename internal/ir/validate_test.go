package ir

import (
	"math"
	"testing"

	"github.com/okieraised/udashboard/internal/cerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func validConfig() *Config {
	normal := StyleSet{Default: {Foreground: Solid{Color: RGBA(1, 1, 1, 1)}}}
	return &Config{
		Screen: Screen{Width: 800, Height: 480},
		Channels: []Channel{
			{Name: "rpm", Units: NamedUnit{Name: "rpm"}},
			{Name: "temp", Units: NamedUnit{Name: "C"}, Transfer: Linear{Slope: 1, Offset: -40}},
		},
		Pages: [][]Gauge{{
			{
				Name:    "tach",
				Label:   Plain{Value: "RPM"},
				Kind:    Dial{Scale: Scale{Min: 0, Max: 8000, Divisions: NoDivisions{}, Style: Filled}},
				Channel: "rpm",
				Bounds:  Bounds{Width: 200, Height: 200},
				Styles:  normal,
			},
			{
				Name:    "temp",
				Label:   NoLabel{},
				Kind:    Text{Format: Decimal{IntDigits: 3, DecDigits: 1}, Style: IndicatorOnly},
				Channel: "temp",
				Styles:  normal,
			},
		}},
		Logic: Logic{{Channel: "temp", Test: Between{Lo: 0, Hi: 100}, Result: Alarm("ok")}},
	}
}

func TestConfig_Validate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		code   string
	}{
		{"zero screen", func(c *Config) { c.Screen = Screen{} }, cerrors.ErrInvalidDashboard.Code},
		{"duplicate channel", func(c *Config) { c.Channels = append(c.Channels, Channel{Name: "rpm"}) }, cerrors.ErrInvalidDashboard.Code},
		{"unnamed channel", func(c *Config) { c.Channels = append(c.Channels, Channel{}) }, cerrors.ErrInvalidDashboard.Code},
		{"gauge unknown channel", func(c *Config) { c.Pages[0][0].Channel = "speed" }, cerrors.ErrUnknownChannel.Code},
		{"logic unknown channel", func(c *Config) { c.Logic[0].Channel = "speed" }, cerrors.ErrUnknownChannel.Code},
		{"inverted interval", func(c *Config) { c.Logic[0].Test = Between{Lo: 5, Hi: 1} }, cerrors.ErrInvalidInterval.Code},
		{"missing test", func(c *Config) { c.Logic[0].Test = nil }, cerrors.ErrInvalidDashboard.Code},
		{"nan interval low", func(c *Config) { c.Logic[0].Test = Between{Lo: math.NaN(), Hi: 5} }, cerrors.ErrInvalidInterval.Code},
		{"nan interval high", func(c *Config) { c.Logic[0].Test = Between{Lo: 1, Hi: math.NaN()} }, cerrors.ErrInvalidInterval.Code},
		{"nan less than", func(c *Config) { c.Logic[0].Test = LessThan{Limit: math.NaN()} }, cerrors.ErrInvalidDashboard.Code},
		{"nan greater than", func(c *Config) { c.Logic[0].Test = GreaterThan{Limit: math.NaN()} }, cerrors.ErrInvalidDashboard.Code},
		{"nan equal", func(c *Config) { c.Logic[0].Test = Equal{Value: math.NaN()} }, cerrors.ErrInvalidDashboard.Code},
		{"missing default style", func(c *Config) {
			c.Pages[0][0].Styles = StyleSet{Alarm("hot"): DebugStyle()}
		}, cerrors.ErrMissingDefaultStyle.Code},
		{"empty scale", func(c *Config) {
			c.Pages[0][0].Kind = VerticalBar{Scale: Scale{Min: 10, Max: 10}}
		}, cerrors.ErrInvalidScale.Code},
		{"unknown gauge style", func(c *Config) {
			c.Pages[0][0].Kind = HorizontalWedge{Scale: Scale{Min: 0, Max: 1, Style: GaugeStyle(9)}}
		}, cerrors.ErrInvalidDashboard.Code},
		{"missing lamp", func(c *Config) { c.Pages[0][0].Kind = IdiotLight{} }, cerrors.ErrInvalidDashboard.Code},
		{"missing kind", func(c *Config) { c.Pages[0][0].Kind = nil }, cerrors.ErrInvalidDashboard.Code},
		{"negative width", func(c *Config) {
			c.Pages[0][1].Kind = Text{Format: Integer{Width: -1}}
		}, cerrors.ErrInvalidFormat.Code},
		{"missing format", func(c *Config) { c.Pages[0][1].Kind = Text{} }, cerrors.ErrInvalidFormat.Code},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)
			assert.Len(t, multierr.Errors(err), 1)
			assert.True(t, cerrors.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestConfig_Validate_ReportsEverything(t *testing.T) {
	c := validConfig()
	c.Screen = Screen{}
	c.Pages[0][0].Channel = "speed"
	c.Pages[0][1].Styles = nil
	c.Logic[0].Test = Between{Lo: 2, Hi: 1}

	errs := multierr.Errors(c.Validate())
	require.Len(t, errs, 4)
	assert.True(t, cerrors.IsCode(errs[0], cerrors.ErrInvalidDashboard.Code))
	assert.True(t, cerrors.IsCode(errs[1], cerrors.ErrInvalidInterval.Code))
	assert.True(t, cerrors.IsCode(errs[2], cerrors.ErrUnknownChannel.Code))
	assert.True(t, cerrors.IsCode(errs[3], cerrors.ErrMissingDefaultStyle.Code))
}

func TestConfig_Lookups(t *testing.T) {
	c := validConfig()

	ch, ok := c.Channel("temp")
	require.True(t, ok)
	assert.Equal(t, "C", UnitName(ch.Units))

	_, ok = c.Channel("speed")
	assert.False(t, ok)
	assert.Equal(t, 2, c.GaugeCount())
}
