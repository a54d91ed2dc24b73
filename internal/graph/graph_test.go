package graph

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/value"
)

type testData struct{ kind string }

func scalarPtr(f float32) *value.Value {
	v := value.NewScalar(f)
	return &v
}

// addAdder creates a node with inputs A, B and output out, all scalar.
func addAdder(t *testing.T, g *Graph[testData], label string) ident.NodeID {
	t.Helper()
	id, err := g.AddNode(label, testData{kind: "add"}, func(g *Graph[testData], id ident.NodeID) error {
		if _, err := g.AddInputParam(id, "A", value.Scalar, scalarPtr(0), ConnectionOrConstant, true); err != nil {
			return err
		}
		if _, err := g.AddInputParam(id, "B", value.Scalar, scalarPtr(0), ConnectionOrConstant, true); err != nil {
			return err
		}
		_, err := g.AddOutputParam(id, "out", value.Scalar)
		return err
	})
	require.NoError(t, err)
	return id
}

func mustInput(t *testing.T, g *Graph[testData], n ident.NodeID, name string) ident.InputID {
	t.Helper()
	id, err := g.GetInput(n, name)
	require.NoError(t, err)
	return id
}

func mustOutput(t *testing.T, g *Graph[testData], n ident.NodeID, name string) ident.OutputID {
	t.Helper()
	id, err := g.GetOutput(n, name)
	require.NoError(t, err)
	return id
}

func TestAddNode_RunsBuilder(t *testing.T) {
	g := New[testData]()
	id := addAdder(t, g, "Scalar add")

	n, err := g.Node(id)
	require.NoError(t, err)
	assert.Equal(t, "Scalar add", n.Label)
	assert.Equal(t, "add", n.UserData.kind)
	require.Len(t, n.Inputs, 2)
	require.Len(t, n.Outputs, 1)

	a, err := g.Input(n.Inputs[0])
	require.NoError(t, err)
	assert.Equal(t, "A", a.Name)
	assert.Equal(t, id, a.Node)
	assert.True(t, a.HasValue)
}

func TestAddNode_BuilderFailureRemovesNode(t *testing.T) {
	g := New[testData]()
	boom := errors.New("boom")
	_, err := g.AddNode("broken", testData{}, func(g *Graph[testData], id ident.NodeID) error {
		_, _ = g.AddOutputParam(id, "out", value.Scalar)
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, g.Nodes())
}

func TestAddInputParam_UnknownNode(t *testing.T) {
	g := New[testData]()
	_, err := g.AddInputParam(ident.NodeID(99), "A", value.Scalar, nil, ConnectionOrConstant, true)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)

	_, err = g.AddOutputParam(ident.NodeID(99), "out", value.Scalar)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestAddInputParam_DuplicateNameRejected(t *testing.T) {
	g := New[testData]()
	id := addAdder(t, g, "add")

	_, err := g.AddInputParam(id, "A", value.Scalar, nil, ConnectionOrConstant, true)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
	_, err = g.AddOutputParam(id, "out", value.Vector)
	assert.ErrorIs(t, err, ErrDuplicateParameter)
}

func TestGetInput_ByName(t *testing.T) {
	g := New[testData]()
	first := addAdder(t, g, "first")
	second := addAdder(t, g, "second")

	a1 := mustInput(t, g, first, "A")
	assert.Equal(t, a1, mustInput(t, g, first, "A"), "lookups are stable")
	assert.NotEqual(t, a1, mustInput(t, g, second, "A"), "lookup is scoped to the node")

	_, err := g.GetInput(first, "Z")
	require.ErrorIs(t, err, ErrNoParameterNamed)
	var npn *NoParameterNamedError
	require.ErrorAs(t, err, &npn)
	assert.Equal(t, first, npn.Node)
	assert.Equal(t, "Z", npn.Name)

	_, err = g.GetOutput(first, "A")
	assert.ErrorIs(t, err, ErrNoParameterNamed, "inputs are not outputs")
}

func TestAddConnection_ReplacesExisting(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")
	b := addAdder(t, g, "b")
	c := addAdder(t, g, "c")
	in := mustInput(t, g, c, "A")

	require.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), in))
	require.NoError(t, g.AddConnection(mustOutput(t, g, b, "out"), in))

	got, ok := g.Connection(in)
	require.True(t, ok)
	assert.Equal(t, mustOutput(t, g, b, "out"), got)
	assert.Len(t, g.Connections(), 1)
}

func TestAddConnection_FanOut(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")
	b := addAdder(t, g, "b")
	out := mustOutput(t, g, a, "out")

	require.NoError(t, g.AddConnection(out, mustInput(t, g, b, "A")))
	require.NoError(t, g.AddConnection(out, mustInput(t, g, b, "B")))

	down, err := g.Downstream(a)
	require.NoError(t, err)
	assert.Equal(t, []ident.NodeID{b}, down)

	up, err := g.Upstream(b)
	require.NoError(t, err)
	assert.Equal(t, []ident.NodeID{a}, up)
}

func TestAddConnection_Refusals(t *testing.T) {
	t.Run("unknown ids", func(t *testing.T) {
		g := New[testData]()
		a := addAdder(t, g, "a")
		err := g.AddConnection(ident.OutputID(77), mustInput(t, g, a, "A"))
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
		err = g.AddConnection(mustOutput(t, g, a, "out"), ident.InputID(77))
		assert.ErrorIs(t, err, ErrUnknownIdentifier)
	})

	t.Run("self loop", func(t *testing.T) {
		g := New[testData]()
		a := addAdder(t, g, "a")
		err := g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, a, "A"))
		assert.ErrorIs(t, err, ErrCycle)
	})

	t.Run("longer cycle", func(t *testing.T) {
		g := New[testData]()
		a := addAdder(t, g, "a")
		b := addAdder(t, g, "b")
		c := addAdder(t, g, "c")
		require.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, b, "A")))
		require.NoError(t, g.AddConnection(mustOutput(t, g, b, "out"), mustInput(t, g, c, "A")))

		err := g.AddConnection(mustOutput(t, g, c, "out"), mustInput(t, g, a, "B"))
		require.ErrorIs(t, err, ErrCycle)
		assert.ErrorContains(t, err, "node[0] -> node[1] -> node[2]")
		_, connected := g.Connection(mustInput(t, g, a, "B"))
		assert.False(t, connected)
		assert.NoError(t, g.detectCycles())
	})

	t.Run("incompatible types", func(t *testing.T) {
		g := New[testData]()
		a := addAdder(t, g, "a")
		v, err := g.AddNode("vec", testData{}, func(g *Graph[testData], id ident.NodeID) error {
			_, err := g.AddInputParam(id, "v", value.Vector, nil, ConnectionOrConstant, true)
			return err
		})
		require.NoError(t, err)

		err = g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, v, "v"))
		assert.ErrorIs(t, err, ErrIncompatibleTypes)
	})

	t.Run("constant only input", func(t *testing.T) {
		g := New[testData]()
		a := addAdder(t, g, "a")
		k, err := g.AddNode("const", testData{}, func(g *Graph[testData], id ident.NodeID) error {
			_, err := g.AddInputParam(id, "k", value.Scalar, scalarPtr(1), ConstantOnly, true)
			return err
		})
		require.NoError(t, err)

		err = g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, k, "k"))
		assert.ErrorIs(t, err, ErrNotConnectable)
	})
}

func TestWithCompatibility_AnyType(t *testing.T) {
	g := New[testData](WithCompatibility(AnyType))
	a := addAdder(t, g, "a")
	v, err := g.AddNode("vec", testData{}, func(g *Graph[testData], id ident.NodeID) error {
		_, err := g.AddInputParam(id, "v", value.Vector, nil, ConnectionOrConstant, true)
		return err
	})
	require.NoError(t, err)

	assert.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, v, "v")))
}

func TestRemoveNode_DropsParamsAndConnections(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")
	b := addAdder(t, g, "b")
	c := addAdder(t, g, "c")
	aOut := mustOutput(t, g, a, "out")
	bA := mustInput(t, g, b, "A")
	bOut := mustOutput(t, g, b, "out")
	cA := mustInput(t, g, c, "A")
	require.NoError(t, g.AddConnection(aOut, bA))
	require.NoError(t, g.AddConnection(bOut, cA))

	removed, err := g.RemoveNode(b)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Connection{{Output: aOut, Input: bA}, {Output: bOut, Input: cA}}, removed)

	assert.Empty(t, g.Connections())
	assert.Equal(t, []ident.NodeID{a, c}, g.Nodes())

	_, err = g.Node(b)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = g.Input(bA)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = g.Output(bOut)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = g.RemoveNode(b)
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
	_, err = g.GetInput(b, "A")
	assert.ErrorIs(t, err, ErrUnknownIdentifier)
}

func TestSetAndClearInputValue(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")
	in := mustInput(t, g, a, "A")

	require.NoError(t, g.SetInputValue(in, value.NewScalar(4)))
	p, err := g.Input(in)
	require.NoError(t, err)
	assert.True(t, p.HasValue)
	assert.True(t, p.Value.Equal(value.NewScalar(4)))

	require.NoError(t, g.ClearInputValue(in))
	p, _ = g.Input(in)
	assert.False(t, p.HasValue)

	assert.ErrorIs(t, g.SetInputValue(ident.InputID(500), value.NewScalar(1)), ErrUnknownIdentifier)
	assert.ErrorIs(t, g.ClearInputValue(ident.InputID(500)), ErrUnknownIdentifier)
}

func TestNode_ReturnsCopy(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")

	n, err := g.Node(a)
	require.NoError(t, err)
	n.Inputs[0] = ident.InputID(999)

	fresh, _ := g.Node(a)
	assert.NotEqual(t, ident.InputID(999), fresh.Inputs[0])
}

func TestAcyclic_CleanGraph(t *testing.T) {
	g := New[testData]()
	assert.NoError(t, g.detectCycles())

	a := addAdder(t, g, "a")
	b := addAdder(t, g, "b")
	c := addAdder(t, g, "c")
	require.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, b, "A")))
	require.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, c, "A")))
	require.NoError(t, g.AddConnection(mustOutput(t, g, b, "out"), mustInput(t, g, c, "B")))
	assert.NoError(t, g.detectCycles())
}

func TestAcyclic_ReportsInjectedCycle(t *testing.T) {
	g := New[testData]()
	a := addAdder(t, g, "a")
	b := addAdder(t, g, "b")
	require.NoError(t, g.AddConnection(mustOutput(t, g, a, "out"), mustInput(t, g, b, "A")))

	// Bypass AddConnection to break the invariant on purpose.
	g.connections[mustInput(t, g, a, "A")] = mustOutput(t, g, b, "out")

	err := g.detectCycles()
	assert.ErrorIs(t, err, ErrCycle)
}
