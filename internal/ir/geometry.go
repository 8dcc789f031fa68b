package ir

// Point is a position in screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Screen is the drawable surface size.
type Screen struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is an axis-aligned rectangle anchored at its top-left corner.
type Bounds struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (b Bounds) Center() Point {
	return Point{X: b.X + b.Width*0.5, Y: b.Y + b.Height*0.5}
}

// Radius returns half of the smaller dimension.
func (b Bounds) Radius() float64 {
	return min(b.Width, b.Height) * 0.5
}

// Inset shrinks every edge by pixels. The result may have a negative size when
// pixels exceeds half the smaller dimension.
func (b Bounds) Inset(pixels float64) Bounds {
	return Bounds{
		X:      b.X + pixels,
		Y:      b.Y + pixels,
		Width:  b.Width - pixels*2,
		Height: b.Height - pixels*2,
	}
}

func (b Bounds) TopLeft() Point {
	return Point{X: b.X, Y: b.Y}
}

func (b Bounds) TopRight() Point {
	return Point{X: b.X + b.Width, Y: b.Y}
}

func (b Bounds) BottomLeft() Point {
	return Point{X: b.X, Y: b.Y + b.Height}
}

func (b Bounds) BottomRight() Point {
	return Point{X: b.X + b.Width, Y: b.Y + b.Height}
}
