package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_Order(t *testing.T) {
	r := New(Builtin{})
	assert.Equal(t, []Template{
		MakeScalar, MakeVector, AddScalar, SubtractScalar, AddVector,
		SubtractVector, VectorTimesScalar, Scaffold, Text,
	}, r.All())
}

func TestRegister_DuplicatePanics(t *testing.T) {
	r := New()
	r.Register(AddScalar)
	assert.Panics(t, func() { r.Register(AddScalar) })
	assert.Panics(t, func() { r.Register(Template(-1)) })
}

func TestLookup(t *testing.T) {
	r := New(Builtin{})
	tmpl, err := r.Lookup("VectorTimesScalar")
	require.NoError(t, err)
	assert.Equal(t, VectorTimesScalar, tmpl)

	_, err = r.Lookup("Divide")
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestCategories(t *testing.T) {
	groups := New(Builtin{}).Categories()
	require.Len(t, groups, 3)

	assert.Equal(t, "Scalar", groups[0].Name)
	assert.Equal(t, []Template{MakeScalar, AddScalar, SubtractScalar, VectorTimesScalar}, groups[0].Templates)
	assert.Equal(t, "Vector", groups[1].Name)
	assert.Equal(t, []Template{MakeVector, AddVector, SubtractVector, VectorTimesScalar}, groups[1].Templates)
	assert.Equal(t, "Widget", groups[2].Name)
	assert.Equal(t, []Template{Scaffold, Text}, groups[2].Templates)
}

func TestAll_ReturnsCopy(t *testing.T) {
	r := New(Builtin{})
	all := r.All()
	all[0] = Text
	assert.Equal(t, MakeScalar, r.All()[0])
}
