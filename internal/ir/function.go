package ir

// Function converts a raw channel reading into engineering units.
// Variants: Identity, ScaleBy, Linear, Polynomial.
type Function interface {
	Apply(raw float64) float64
	isFunction()
}

type Identity struct{}

type ScaleBy struct {
	Factor float64
}

// Linear computes Slope*raw + Offset.
type Linear struct {
	Slope  float64
	Offset float64
}

// Polynomial holds coefficients in ascending power order: c0 + c1*x + c2*x^2 ...
type Polynomial struct {
	Coefficients []float64
}

func (Identity) Apply(raw float64) float64  { return raw }
func (f ScaleBy) Apply(raw float64) float64 { return raw * f.Factor }
func (f Linear) Apply(raw float64) float64  { return f.Slope*raw + f.Offset }

func (f Polynomial) Apply(raw float64) float64 {
	var acc float64
	for i := len(f.Coefficients) - 1; i >= 0; i-- {
		acc = acc*raw + f.Coefficients[i]
	}
	return acc
}

func (Identity) isFunction()   {}
func (ScaleBy) isFunction()    {}
func (Linear) isFunction()     {}
func (Polynomial) isFunction() {}

// ApplyTransfer treats a nil function as Identity.
func ApplyTransfer(f Function, raw float64) float64 {
	if f == nil {
		return raw
	}
	return f.Apply(raw)
}
