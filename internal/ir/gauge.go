package ir

// Unit tags a channel with its measurement unit.
// Variants: NoUnit, NamedUnit.
type Unit interface {
	isUnit()
}

type NoUnit struct{}

type NamedUnit struct {
	Name string
}

func (NoUnit) isUnit()    {}
func (NamedUnit) isUnit() {}

// UnitName returns the unit string, empty when the channel has no unit.
func UnitName(u Unit) string {
	if n, ok := u.(NamedUnit); ok {
		return n.Name
	}
	return ""
}

// Channel is a named telemetry source. Transfer, when set, converts raw readings
// before they reach the pipeline.
type Channel struct {
	Name     string
	Units    Unit
	Transfer Function
}

// Lamp is the shape of an idiot light.
// Variants: RoundLamp, RectLamp, RoundedRectLamp, ImageLamp.
type Lamp interface {
	isLamp()
}

type RoundLamp struct{}

type RectLamp struct{}

type RoundedRectLamp struct{}

type ImageLamp struct {
	Path string
}

func (RoundLamp) isLamp()       {}
func (RectLamp) isLamp()        {}
func (RoundedRectLamp) isLamp() {}
func (ImageLamp) isLamp()       {}

// GaugeType selects how a gauge presents its channel.
// Variants: Dial, VerticalBar, HorizontalBar, VerticalWedge, HorizontalWedge,
// IdiotLight, Text.
type GaugeType interface {
	// Kind is the stable name of the variant.
	Kind() string
	isGaugeType()
}

type Dial struct{ Scale Scale }

type VerticalBar struct{ Scale Scale }

type HorizontalBar struct{ Scale Scale }

type VerticalWedge struct{ Scale Scale }

type HorizontalWedge struct{ Scale Scale }

type IdiotLight struct{ Lamp Lamp }

type Text struct {
	Format Format
	Style  GaugeStyle
}

const (
	KindDial            = "dial"
	KindVerticalBar     = "vertical_bar"
	KindHorizontalBar   = "horizontal_bar"
	KindVerticalWedge   = "vertical_wedge"
	KindHorizontalWedge = "horizontal_wedge"
	KindIdiotLight      = "idiot_light"
	KindText            = "text"
)

func (Dial) Kind() string            { return KindDial }
func (VerticalBar) Kind() string     { return KindVerticalBar }
func (HorizontalBar) Kind() string   { return KindHorizontalBar }
func (VerticalWedge) Kind() string   { return KindVerticalWedge }
func (HorizontalWedge) Kind() string { return KindHorizontalWedge }
func (IdiotLight) Kind() string      { return KindIdiotLight }
func (Text) Kind() string            { return KindText }

func (Dial) isGaugeType()            {}
func (VerticalBar) isGaugeType()     {}
func (HorizontalBar) isGaugeType()   {}
func (VerticalWedge) isGaugeType()   {}
func (HorizontalWedge) isGaugeType() {}
func (IdiotLight) isGaugeType()      {}
func (Text) isGaugeType()            {}

// ScaleOf returns the scale of the graphical gauge kinds.
func ScaleOf(kind GaugeType) (Scale, bool) {
	switch k := kind.(type) {
	case Dial:
		return k.Scale, true
	case VerticalBar:
		return k.Scale, true
	case HorizontalBar:
		return k.Scale, true
	case VerticalWedge:
		return k.Scale, true
	case HorizontalWedge:
		return k.Scale, true
	default:
		return Scale{}, false
	}
}

// Gauge is one visual widget bound to a channel by name.
type Gauge struct {
	Name    string
	Label   Label
	Kind    GaugeType
	Channel string
	Bounds  Bounds
	Styles  StyleSet
}

// Config is the whole dashboard. It is built once and shared read-only.
type Config struct {
	Screen   Screen
	Channels []Channel
	Pages    [][]Gauge
	Logic    Logic
}

// Channel finds a declared channel by name.
func (c *Config) Channel(name string) (Channel, bool) {
	for _, ch := range c.Channels {
		if ch.Name == name {
			return ch, true
		}
	}
	return Channel{}, false
}

// GaugeCount returns the number of gauges across all pages.
func (c *Config) GaugeCount() int {
	n := 0
	for _, page := range c.Pages {
		n += len(page)
	}
	return n
}
