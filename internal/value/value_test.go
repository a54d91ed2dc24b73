package value

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
	"pgregory.net/rapid"
)

func TestDefault_IsScalarZero(t *testing.T) {
	var zero Value
	f, err := zero.AsScalar()
	require.NoError(t, err)
	assert.Equal(t, float32(0), f)
	assert.True(t, zero.Equal(NewScalar(0)))
}

func TestDefault_PerType(t *testing.T) {
	for _, dt := range AllDataTypes {
		assert.Equal(t, dt, Default(dt).Type(), dt.Name())
	}
}

func TestCasts_Mismatch(t *testing.T) {
	_, err := NewScalar(1).AsVector()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeMismatch))

	var tm *TypeMismatchError
	require.ErrorAs(t, err, &tm)
	assert.Equal(t, Vector, tm.Expected)
	assert.Equal(t, Scalar, tm.Actual)
	assert.Equal(t, "invalid cast from scalar to 2d vector", err.Error())

	_, err = NewVector(1, 2).AsScalar()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = NewText("x").AsWidget()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = NewWidget(cty.EmptyObjectVal).AsText()
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestVec2_Arithmetic(t *testing.T) {
	v := Vec2{1, 2}
	assert.Equal(t, Vec2{4, 6}, v.Add(Vec2{3, 4}))
	assert.Equal(t, Vec2{-2, -2}, v.Sub(Vec2{3, 4}))
	assert.Equal(t, Vec2{3, 6}, v.Scale(3))
}

func TestString(t *testing.T) {
	assert.Equal(t, "Scalar(5)", NewScalar(5).String())
	assert.Equal(t, "Vector(3, 6)", NewVector(3, 6).String())
	assert.Equal(t, `Text("hi")`, NewText("hi").String())
	doc := cty.ObjectVal(map[string]cty.Value{"text": cty.StringVal("hi")})
	assert.Equal(t, `Widget({"text":"hi"})`, NewWidget(doc).String())
}

func TestNewWidget_NormalizesNull(t *testing.T) {
	w, err := NewWidget(cty.NullVal(cty.DynamicPseudoType)).AsWidget()
	require.NoError(t, err)
	assert.True(t, w.RawEquals(cty.EmptyObjectVal))
}

func TestDataType_Presentation(t *testing.T) {
	assert.Equal(t, "scalar", Scalar.Name())
	assert.Equal(t, "2d vector", Vector.String())
	assert.Equal(t, "#266dd3", Scalar.Color().Hex())
	assert.NotEqual(t, Widget.Color(), Text.Color())
}

func TestFromCty(t *testing.T) {
	testCases := []struct {
		name    string
		dt      DataType
		in      cty.Value
		want    Value
		wantErr string
	}{
		{name: "scalar", dt: Scalar, in: cty.NumberFloatVal(2.5), want: NewScalar(2.5)},
		{name: "vector object", dt: Vector, in: cty.ObjectVal(map[string]cty.Value{"x": cty.NumberIntVal(1), "y": cty.NumberIntVal(2)}), want: NewVector(1, 2)},
		{name: "vector tuple", dt: Vector, in: cty.TupleVal([]cty.Value{cty.NumberIntVal(3), cty.NumberIntVal(4)}), want: NewVector(3, 4)},
		{name: "text", dt: Text, in: cty.StringVal("hi"), want: NewText("hi")},
		{name: "widget", dt: Widget, in: cty.EmptyObjectVal, want: NewWidget(cty.EmptyObjectVal)},
		{name: "string is not a scalar", dt: Scalar, in: cty.StringVal("2"), wantErr: "expected number"},
		{name: "scalar is not a vector", dt: Vector, in: cty.NumberIntVal(1), wantErr: "expected vector"},
		{name: "scalar overflowing float32", dt: Scalar, in: cty.NumberFloatVal(1e39), wantErr: "does not fit a scalar"},
		{name: "vector component overflowing float32", dt: Vector, in: cty.TupleVal([]cty.Value{cty.NumberFloatVal(-1e39), cty.NumberIntVal(1)}), wantErr: "vector x: number out of range"},
		{name: "short tuple", dt: Vector, in: cty.TupleVal([]cty.Value{cty.NumberIntVal(3)}), wantErr: "exactly two elements"},
		{name: "widget must be object", dt: Widget, in: cty.StringVal("x"), wantErr: "must be objects"},
		{name: "null", dt: Text, in: cty.NullVal(cty.String), wantErr: "null"},
		{name: "unknown", dt: Text, in: cty.UnknownVal(cty.String), wantErr: "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromCty(tc.dt, tc.in)
			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestCty_NonFiniteComponents(t *testing.T) {
	inf := float32(math.Inf(1))
	nan := float32(math.NaN())

	_, err := NewScalar(nan).Cty()
	var nf *NonFiniteError
	require.ErrorAs(t, err, &nf)
	assert.ErrorIs(t, err, ErrNonFinite)

	_, err = NewVector(1, inf).Cty()
	assert.ErrorIs(t, err, ErrNonFinite)
	assert.ErrorContains(t, err, "vector y")

	got, err := NewVector(1, 2).Cty()
	require.NoError(t, err)
	assert.True(t, got.GetAttr("y").RawEquals(cty.NumberFloatVal(2)))

	assert.False(t, IsFinite(inf))
	assert.False(t, IsFinite(nan))
	assert.True(t, IsFinite(math.MaxFloat32))
}

func TestProperty_MatchingCastReturnsPayload(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float32().Draw(t, "x")
		y := rapid.Float32().Draw(t, "y")
		s := rapid.String().Draw(t, "s")

		if got, err := NewScalar(x).AsScalar(); err != nil || !eq32(got, x) {
			t.Fatalf("scalar round trip: got %v, %v", got, err)
		}
		if got, err := NewVector(x, y).AsVector(); err != nil || !NewVec2(got).Equal(NewVector(x, y)) {
			t.Fatalf("vector round trip: got %v, %v", got, err)
		}
		if got, err := NewText(s).AsText(); err != nil || got != s {
			t.Fatalf("text round trip: got %q, %v", got, err)
		}
	})
}

func TestProperty_MismatchedCastNeverCoerces(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		src := rapid.SampledFrom(AllDataTypes).Draw(t, "src")
		dst := rapid.SampledFrom(AllDataTypes).Draw(t, "dst")
		if src == dst {
			return
		}

		v := Default(src)
		var err error
		switch dst {
		case Scalar:
			_, err = v.AsScalar()
		case Vector:
			_, err = v.AsVector()
		case Widget:
			_, err = v.AsWidget()
		case Text:
			_, err = v.AsText()
		}
		if !errors.Is(err, ErrTypeMismatch) {
			t.Fatalf("casting %s to %s: expected type mismatch, got %v", src, dst, err)
		}
	})
}
