package emulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/registry"
	"github.com/vk/tensorgridgo/internal/selection"
)

func fval(name string) *graph.Value {
	return &graph.Value{Name: name, Type: graph.TypeFloat32}
}

// chain builds a linear graph n0 -> n1 -> n2 with the given ops.
func chain(t *testing.T, ops ...string) *graph.Graph {
	t.Helper()
	g := graph.New("main")
	g.AddInput(fval("v0"))
	prev := "v0"
	for i, op := range ops {
		out := fval(prevName(i))
		_, err := g.AddNode(op+"_node", op,
			[]*graph.Value{g.GetOrCreateValue(prev, graph.TypeFloat32)},
			[]*graph.Value{out})
		require.NoError(t, err)
		prev = out.Name
	}
	g.MarkOutput(g.GetOrCreateValue(prev, graph.TypeFloat32))
	return g
}

func prevName(i int) string {
	return "v" + string(rune('1'+i))
}

func allPositions(g *graph.Graph) *selection.Subset {
	topo := g.TopologicalOrder()
	positions := make([]int, len(topo))
	for i := range topo {
		positions[i] = i
	}
	return &selection.Subset{Positions: positions, Supported: true}
}

func TestParseGraph_SplitsAroundUnsupportedOps(t *testing.T) {
	t.Parallel()

	g := chain(t, "Add", "Mul", "Sub")
	be := New(&config.BackendDefinition{Type: BackendType, SupportedOps: []string{"Add", "Sub"}})

	subsets, err := be.ParseGraph(context.Background(), g, allPositions(g))
	require.NoError(t, err)

	require.Len(t, subsets, 2, "the unsupported Mul splits the run")
	assert.Equal(t, []int{0}, subsets[0].Positions)
	assert.Equal(t, []int{2}, subsets[1].Positions)
	assert.True(t, subsets[0].Supported)
	assert.True(t, subsets[1].Supported)
}

func TestParseGraph_AllSupported(t *testing.T) {
	t.Parallel()

	g := chain(t, "Add", "Mul", "Sub")
	be := New(&config.BackendDefinition{Type: BackendType, SupportedOps: []string{"Add", "Mul", "Sub"}})

	subsets, err := be.ParseGraph(context.Background(), g, allPositions(g))
	require.NoError(t, err)
	require.Len(t, subsets, 1)
	assert.Equal(t, []int{0, 1, 2}, subsets[0].Positions)
}

func TestParseGraph_NothingSupported(t *testing.T) {
	t.Parallel()

	g := chain(t, "Add")
	be := New(&config.BackendDefinition{Type: BackendType})

	subsets, err := be.ParseGraph(context.Background(), g, allPositions(g))
	require.NoError(t, err)
	assert.Empty(t, subsets)
}

func TestCompile(t *testing.T) {
	t.Parallel()

	g := chain(t, "Add", "Sub")
	be := New(&config.BackendDefinition{Type: BackendType, SupportedOps: []string{"Add", "Sub"}})

	t.Run("valid capability", func(t *testing.T) {
		t.Parallel()
		unit, err := be.Compile(context.Background(), g, &selection.Capability{Nodes: []int{0, 1}})
		require.NoError(t, err)
		assert.Equal(t, 2, unit.NodeCount())
		assert.NotEmpty(t, unit.Name())
	})

	t.Run("stale node index", func(t *testing.T) {
		t.Parallel()
		_, err := be.Compile(context.Background(), g, &selection.Capability{Nodes: []int{99}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing node index")
	})
}

func TestModule_RegistersFactory(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	(&Module{}).Register(reg)

	be, err := reg.NewBackend(&config.BackendDefinition{Type: BackendType, SupportedOps: []string{"Add"}})
	require.NoError(t, err)
	assert.Equal(t, BackendType, be.Name())
}
