package value

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Vec2 is a two dimensional vector payload.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float32) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) String() string       { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Value is the tagged union of port payloads. The zero Value is Scalar(0),
// the neutral value used to seed new constant inputs.
type Value struct {
	kind   DataType
	scalar float32
	vector Vec2
	widget cty.Value
	text   string
}

// NewScalar wraps a scalar payload.
func NewScalar(f float32) Value { return Value{kind: Scalar, scalar: f} }

// NewVector wraps a vector payload.
func NewVector(x, y float32) Value { return Value{kind: Vector, vector: Vec2{x, y}} }

// NewVec2 wraps an existing Vec2.
func NewVec2(v Vec2) Value { return Value{kind: Vector, vector: v} }

// NewWidget wraps a structured document. A null or unknown document is
// normalized to an empty object.
func NewWidget(doc cty.Value) Value {
	if doc == cty.NilVal || doc.IsNull() || !doc.IsWhollyKnown() {
		doc = cty.EmptyObjectVal
	}
	return Value{kind: Widget, widget: doc}
}

// NewText wraps a string payload.
func NewText(s string) Value { return Value{kind: Text, text: s} }

// Default returns the neutral value for t.
func Default(t DataType) Value {
	switch t {
	case Vector:
		return NewVector(0, 0)
	case Widget:
		return NewWidget(cty.EmptyObjectVal)
	case Text:
		return NewText("")
	default:
		return NewScalar(0)
	}
}

// Type returns the tag of v.
func (v Value) Type() DataType { return v.kind }

// AsScalar returns the scalar payload or a *TypeMismatchError.
func (v Value) AsScalar() (float32, error) {
	if v.kind != Scalar {
		return 0, mismatch(Scalar, v.kind)
	}
	return v.scalar, nil
}

// AsVector returns the vector payload or a *TypeMismatchError.
func (v Value) AsVector() (Vec2, error) {
	if v.kind != Vector {
		return Vec2{}, mismatch(Vector, v.kind)
	}
	return v.vector, nil
}

// AsWidget returns the document payload or a *TypeMismatchError.
func (v Value) AsWidget() (cty.Value, error) {
	if v.kind != Widget {
		return cty.NilVal, mismatch(Widget, v.kind)
	}
	if v.widget == cty.NilVal {
		return cty.EmptyObjectVal, nil
	}
	return v.widget, nil
}

// AsText returns the string payload or a *TypeMismatchError.
func (v Value) AsText() (string, error) {
	if v.kind != Text {
		return "", mismatch(Text, v.kind)
	}
	return v.text, nil
}

// Equal reports whether both values carry the same tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Scalar:
		return eq32(v.scalar, o.scalar)
	case Vector:
		return eq32(v.vector.X, o.vector.X) && eq32(v.vector.Y, o.vector.Y)
	case Widget:
		a, _ := v.AsWidget()
		b, _ := o.AsWidget()
		return a.RawEquals(b)
	default:
		return v.text == o.text
	}
}

func isNaN(f float32) bool { return math.IsNaN(float64(f)) }

// eq32 treats two NaNs as equal so that Equal is reflexive.
func eq32(a, b float32) bool { return a == b || (isNaN(a) && isNaN(b)) }

func (v Value) String() string {
	switch v.kind {
	case Scalar:
		return fmt.Sprintf("Scalar(%g)", v.scalar)
	case Vector:
		return fmt.Sprintf("Vector%s", v.vector)
	case Widget:
		doc, _ := v.AsWidget()
		raw, err := ctyjson.Marshal(doc, doc.Type())
		if err != nil {
			return "Widget(<unprintable>)"
		}
		return fmt.Sprintf("Widget(%s)", raw)
	default:
		return fmt.Sprintf("Text(%q)", v.text)
	}
}
