package dashboard

import (
	"context"
	"testing"

	"github.com/okieraised/udashboard/internal/ir"
	"github.com/okieraised/udashboard/internal/pipeline"
	"github.com/okieraised/udashboard/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngineBay_Validates(t *testing.T) {
	cfg := EngineBay()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Pages, 2)
	assert.Equal(t, 5, cfg.GaugeCount())
}

func TestEngineBay_FreshCopies(t *testing.T) {
	a := EngineBay()
	a.Channels[0].Name = "changed"
	assert.Equal(t, ChannelRPM, EngineBay().Channels[0].Name)
}

func TestEngineBay_Labels(t *testing.T) {
	cfg := EngineBay()
	assert.Equal(t, "RPM x1000", cfg.Pages[0][0].Label.Text())
	assert.Equal(t, "Coolant C", cfg.Pages[0][1].Label.Text())
	assert.Equal(t, ir.Plain{Value: "BATT"}, cfg.Pages[1][0].Label)
}

func TestEngineBay_Frame(t *testing.T) {
	cfg := EngineBay()
	store := telemetry.NewStore(cfg.Channels)
	_, err := store.UpdateMany(map[string]float64{
		ChannelRPM:         6800,
		ChannelCoolant:     1550,
		ChannelOilPressure: 2,
		ChannelBattery:     12.4,
		ChannelLapTime:     83456,
	})
	require.NoError(t, err)

	pages, err := pipeline.EvaluateFrame(context.Background(), cfg, store.Snapshot().Lookup, 0, 4)
	require.NoError(t, err)

	tach := pages[0][0]
	assert.Equal(t, ir.Alarm("shift"), tach.State)
	assert.InDelta(t, 0.85, tach.Scale.Percent, 1e-12)
	assert.Len(t, tach.Scale.Divisions.Major, 9)
	assert.Equal(t, "8", tach.Scale.Divisions.Major[8].Label.Text)

	coolant := pages[0][1]
	assert.InDelta(t, 115, coolant.Value, 1e-9)
	assert.Equal(t, ir.Alarm("hot"), coolant.State)

	oil := pages[0][2]
	assert.InDelta(t, 247.5, oil.Value, 1e-9)
	assert.Equal(t, ir.Default, oil.State)

	battery := pages[1][0]
	assert.False(t, battery.Light.Lit)

	lap := pages[1][1]
	assert.Equal(t, " 0:01:23.45", lap.Text.Value)
}
