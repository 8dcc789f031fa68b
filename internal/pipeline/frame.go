package pipeline

import (
	"time"

	"github.com/okieraised/udashboard/internal/ir"
)

// Frame is the resolved output of every gauge for one tick.
type Frame struct {
	Seq         uint64         `json:"seq"`
	SnapshotSeq uint64         `json:"snapshot_seq"`
	ElapsedMs   int64          `json:"elapsed_ms"`
	CreatedAt   time.Time      `json:"created_at"`
	Pages       [][]GaugeFrame `json:"pages"`
}

// PageFrame is one page cut out of a Frame.
type PageFrame struct {
	Seq       uint64       `json:"seq"`
	ElapsedMs int64        `json:"elapsed_ms"`
	CreatedAt time.Time    `json:"created_at"`
	Page      int          `json:"page"`
	Gauges    []GaugeFrame `json:"gauges"`
}

// Page returns the n-th page of the frame.
func (f *Frame) Page(n int) (PageFrame, bool) {
	if f == nil || n < 0 || n >= len(f.Pages) {
		return PageFrame{}, false
	}
	return PageFrame{
		Seq:       f.Seq,
		ElapsedMs: f.ElapsedMs,
		CreatedAt: f.CreatedAt,
		Page:      n,
		Gauges:    f.Pages[n],
	}, true
}

// GaugeFrame is what the renderer needs to draw one gauge. Exactly one of
// Scale, Text and Light is set unless Error is.
type GaugeFrame struct {
	Name    string            `json:"name"`
	Kind    string            `json:"kind"`
	Channel string            `json:"channel"`
	Units   string            `json:"units,omitempty"`
	Label   LabelView         `json:"label"`
	Bounds  ir.Bounds         `json:"bounds"`
	Value   float64           `json:"value"`
	State   ir.State          `json:"state"`
	Style   *ir.ResolvedStyle `json:"style,omitempty"`
	Scale   *ScaleView        `json:"scale,omitempty"`
	Text    *TextView         `json:"text,omitempty"`
	Light   *LightView        `json:"light,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type LabelView struct {
	Text  string    `json:"text"`
	Size  float64   `json:"size,omitempty"`
	Color *ir.Color `json:"color,omitempty"`
}

type ScaleView struct {
	Min       float64       `json:"min"`
	Max       float64       `json:"max"`
	Percent   float64       `json:"percent"`
	Angle     *float64      `json:"angle,omitempty"`
	Style     ir.GaugeStyle `json:"style"`
	Divisions DivisionsView `json:"divisions"`
}

type DivisionsView struct {
	Kind  string          `json:"kind"`
	Ticks []float64       `json:"ticks,omitempty"`
	Major []MajorTickView `json:"major,omitempty"`
	Minor []float64       `json:"minor,omitempty"`
}

type MajorTickView struct {
	Label    LabelView `json:"label"`
	Position float64   `json:"position"`
}

type TextView struct {
	Value string        `json:"value"`
	Style ir.GaugeStyle `json:"style"`
}

type LightView struct {
	Lit   bool   `json:"lit"`
	Lamp  string `json:"lamp"`
	Image string `json:"image,omitempty"`
}

const (
	DivisionsNone       = "none"
	DivisionsUniform    = "uniform"
	DivisionsMajorMinor = "major_minor"
)

func labelView(l ir.Label) LabelView {
	switch v := l.(type) {
	case ir.Plain:
		return LabelView{Text: v.Value}
	case ir.Sized:
		return LabelView{Text: v.Value, Size: v.Size}
	case ir.Styled:
		c := v.Color
		return LabelView{Text: v.Value, Size: v.Size, Color: &c}
	default:
		return LabelView{}
	}
}

func divisionsView(d ir.Divisions) DivisionsView {
	switch v := d.(type) {
	case ir.Uniform:
		return DivisionsView{Kind: DivisionsUniform, Ticks: v.Ticks}
	case ir.MajorMinor:
		major := make([]MajorTickView, 0, len(v.Major))
		for _, tick := range v.Major {
			major = append(major, MajorTickView{Label: labelView(tick.Label), Position: tick.Position})
		}
		return DivisionsView{Kind: DivisionsMajorMinor, Major: major, Minor: v.Minor}
	default:
		return DivisionsView{Kind: DivisionsNone}
	}
}

func lampView(l ir.Lamp) (string, string) {
	switch v := l.(type) {
	case ir.RoundLamp:
		return "round", ""
	case ir.RectLamp:
		return "rect", ""
	case ir.RoundedRectLamp:
		return "rounded_rect", ""
	case ir.ImageLamp:
		return "image", v.Path
	default:
		return "", ""
	}
}
