package value

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// VectorType is the cty object shape used for vector payloads.
var VectorType = cty.Object(map[string]cty.Type{
	"x": cty.Number,
	"y": cty.Number,
})

// Cty converts v into its cty representation. Scalar and vector components
// must be finite; cty numbers cannot hold NaN or infinities.
func (v Value) Cty() (cty.Value, error) {
	switch v.kind {
	case Vector:
		x, err := ctyFinite(v.vector.X)
		if err != nil {
			return cty.NilVal, fmt.Errorf("vector x: %w", err)
		}
		y, err := ctyFinite(v.vector.Y)
		if err != nil {
			return cty.NilVal, fmt.Errorf("vector y: %w", err)
		}
		return cty.ObjectVal(map[string]cty.Value{"x": x, "y": y}), nil
	case Widget:
		doc, _ := v.AsWidget()
		return doc, nil
	case Text:
		return cty.StringVal(v.text), nil
	default:
		return ctyFinite(v.scalar)
	}
}

func ctyFinite(f float32) (cty.Value, error) {
	if !IsFinite(f) {
		return cty.NilVal, &NonFiniteError{Value: f}
	}
	return cty.NumberFloatVal(float64(f)), nil
}

// IsFinite reports whether f is neither NaN nor an infinity.
func IsFinite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// FromCty converts a cty value into a Value of the requested DataType. The
// conversion is strict: a string is never read as a number, and a number is
// never widened into a vector.
func FromCty(t DataType, v cty.Value) (Value, error) {
	if v == cty.NilVal || v.IsNull() {
		return Value{}, fmt.Errorf("cannot use null as %s", t.Name())
	}
	if !v.IsWhollyKnown() {
		return Value{}, fmt.Errorf("cannot use an unknown value as %s", t.Name())
	}

	switch t {
	case Scalar:
		f, err := ctyNumber(v)
		if err != nil {
			return Value{}, err
		}
		return NewScalar(f), nil

	case Vector:
		x, y, err := ctyPair(v)
		if err != nil {
			return Value{}, err
		}
		return NewVector(x, y), nil

	case Widget:
		ty := v.Type()
		if !ty.IsObjectType() && !ty.IsMapType() {
			return Value{}, fmt.Errorf("widget documents must be objects, got %s", ty.FriendlyName())
		}
		return NewWidget(v), nil

	case Text:
		if !v.Type().Equals(cty.String) {
			return Value{}, fmt.Errorf("expected string, got %s", v.Type().FriendlyName())
		}
		return NewText(v.AsString()), nil
	}

	return Value{}, fmt.Errorf("unsupported data type %d", int(t))
}

func ctyNumber(v cty.Value) (float32, error) {
	if !v.Type().Equals(cty.Number) {
		return 0, fmt.Errorf("expected number, got %s", v.Type().FriendlyName())
	}
	var f float32
	if err := gocty.FromCtyValue(v, &f); err != nil {
		return 0, fmt.Errorf("number out of range: %w", err)
	}
	if !IsFinite(f) {
		return 0, fmt.Errorf("number out of range: %s does not fit a scalar", v.AsBigFloat().Text('g', 6))
	}
	return f, nil
}

// ctyPair reads {x = .., y = ..} objects and two element tuples or lists.
func ctyPair(v cty.Value) (float32, float32, error) {
	ty := v.Type()
	var xv, yv cty.Value

	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute("x") || !ty.HasAttribute("y") {
			return 0, 0, fmt.Errorf("vector objects need x and y attributes, got %s", ty.FriendlyName())
		}
		xv, yv = v.GetAttr("x"), v.GetAttr("y")
	case ty.IsTupleType() || ty.IsListType():
		if v.LengthInt() != 2 {
			return 0, 0, fmt.Errorf("vectors need exactly two elements, got %d", v.LengthInt())
		}
		xv, yv = v.Index(cty.NumberIntVal(0)), v.Index(cty.NumberIntVal(1))
	default:
		return 0, 0, fmt.Errorf("expected vector, got %s", ty.FriendlyName())
	}

	x, err := ctyNumber(xv)
	if err != nil {
		return 0, 0, fmt.Errorf("vector x: %w", err)
	}
	y, err := ctyNumber(yv)
	if err != nil {
		return 0, 0, fmt.Errorf("vector y: %w", err)
	}
	return x, y, nil
}
