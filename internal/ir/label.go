package ir

// Label is the text decoration attached to gauges and major ticks.
// Variants: NoLabel, Plain, Sized, Styled.
type Label interface {
	// Text returns the text payload, empty for NoLabel.
	Text() string
	// Append returns a label of the same variant with extra concatenated onto the
	// text. NoLabel becomes Plain.
	Append(extra string) Label
	isLabel()
}

type NoLabel struct{}

type Plain struct {
	Value string `json:"text"`
}

type Sized struct {
	Value string  `json:"text"`
	Size  float64 `json:"size"`
}

type Styled struct {
	Value string  `json:"text"`
	Size  float64 `json:"size"`
	Color Color   `json:"color"`
}

func (NoLabel) Text() string  { return "" }
func (l Plain) Text() string  { return l.Value }
func (l Sized) Text() string  { return l.Value }
func (l Styled) Text() string { return l.Value }

func (NoLabel) Append(extra string) Label {
	return Plain{Value: extra}
}

func (l Plain) Append(extra string) Label {
	return Plain{Value: l.Value + extra}
}

func (l Sized) Append(extra string) Label {
	return Sized{Value: l.Value + extra, Size: l.Size}
}

func (l Styled) Append(extra string) Label {
	return Styled{Value: l.Value + extra, Size: l.Size, Color: l.Color}
}

func (NoLabel) isLabel() {}
func (Plain) isLabel()   {}
func (Sized) isLabel()   {}
func (Styled) isLabel()  {}

// AppendLabel treats a nil label as NoLabel.
func AppendLabel(l Label, extra string) Label {
	if l == nil {
		return NoLabel{}.Append(extra)
	}
	return l.Append(extra)
}
