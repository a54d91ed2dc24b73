package value

import "fmt"

// DataType is the compatibility class of a port.
type DataType int

const (
	Scalar DataType = iota
	Vector
	Widget
	Text
)

// AllDataTypes lists every DataType in declaration order.
var AllDataTypes = []DataType{Scalar, Vector, Widget, Text}

// Color is an sRGB triple used by presentation layers to color-code ports.
type Color struct {
	R, G, B uint8
}

// Hex renders the color as #rrggbb.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Name is the human-readable name shown next to ports.
func (t DataType) Name() string {
	switch t {
	case Scalar:
		return "scalar"
	case Vector:
		return "2d vector"
	case Widget:
		return "widget"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Color returns the port color for t.
func (t DataType) Color() Color {
	switch t {
	case Scalar:
		return Color{38, 109, 211}
	case Vector:
		return Color{238, 207, 109}
	case Widget:
		return Color{38, 255, 150}
	case Text:
		return Color{124, 25, 180}
	default:
		return Color{}
	}
}

func (t DataType) String() string {
	return t.Name()
}
