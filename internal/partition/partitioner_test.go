package partition

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/selection"
	"github.com/zclconf/go-cty/cty"
)

// fakeBackend accepts every proposed node except those whose op appears in
// the rejected set, splitting around rejections like a real parser.
type fakeBackend struct {
	rejectedOps map[string]struct{}
	parseErr    error
}

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) ParseGraph(_ context.Context, g *graph.Graph, proposed *selection.Subset) ([]*selection.Subset, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	topo := g.TopologicalOrder()
	var subsets []*selection.Subset
	var run []int
	flush := func() {
		if len(run) > 0 {
			subsets = append(subsets, &selection.Subset{Positions: run, Supported: true})
			run = nil
		}
	}
	for _, pos := range proposed.Positions {
		n := g.NodeAt(topo[pos])
		if n == nil {
			flush()
			continue
		}
		if _, rejected := f.rejectedOps[n.Op()]; rejected {
			flush()
			continue
		}
		run = append(run, pos)
	}
	flush()
	return subsets, nil
}

func (f *fakeBackend) Compile(_ context.Context, g *graph.Graph, accepted *selection.Capability) (backend.CompiledUnit, error) {
	return nil, errors.New("not implemented")
}

func fval(name string) *graph.Value {
	return &graph.Value{Name: name, Type: graph.TypeFloat32}
}

// dqChain builds: dq = DequantizeLinear(q) -> dqo, mm = MatMul(dqo, x) -> y.
func dqChain(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New("main")
	g.AddInput(fval("x"))
	g.AddInitializer(&graph.Value{Name: "q", Type: graph.TypeInt32})
	_, err := g.AddNode("dq", "DequantizeLinear",
		[]*graph.Value{g.GetOrCreateValue("q", graph.TypeInt32)},
		[]*graph.Value{fval("dqo")})
	require.NoError(t, err)
	_, err = g.AddNode("mm", "MatMul",
		[]*graph.Value{g.GetOrCreateValue("dqo", graph.TypeFloat32), g.GetOrCreateValue("x", graph.TypeFloat32)},
		[]*graph.Value{fval("y")})
	require.NoError(t, err)
	g.MarkOutput(g.GetOrCreateValue("y", graph.TypeFloat32))
	return g
}

func TestPartition_AllNodesAccepted(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	p := New(&fakeBackend{}, backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())

	res, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)

	// The reference graph is untouched; the result refers to a clone.
	assert.NotSame(t, ref, res.Graph)
	assert.Same(t, ref, res.Graph.Source())

	require.Len(t, res.Capabilities, 1)
	assert.ElementsMatch(t, []int{0, 1}, res.Capabilities[0].Nodes)

	dq, _ := res.Graph.NodeByName("dq")
	assert.Contains(t, res.AuxiliarySelected, dq.Index())

	require.Len(t, res.Optimizations, 1)
	assert.Equal(t, []int{dq.Index()}, res.Optimizations[0].Nodes)
	assert.NotNil(t, res.Optimizations[0].Optimize)
}

func TestPartition_ParserFilteredAuxiliaryIsReadmitted(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	// The parser drops the auxiliary op; augmentation must bring it back
	// into the accepted capability.
	be := &fakeBackend{rejectedOps: map[string]struct{}{"DequantizeLinear": {}}}
	p := New(be, backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())

	res, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)

	require.Len(t, res.Capabilities, 1)
	dq, _ := res.Graph.NodeByName("dq")
	mm, _ := res.Graph.NodeByName("mm")
	assert.ElementsMatch(t, []int{dq.Index(), mm.Index()}, res.Capabilities[0].Nodes)

	require.Len(t, res.Optimizations, 1)
	assert.Equal(t, []int{dq.Index()}, res.Optimizations[0].Nodes)
}

func TestPartition_MaterializesExternalConstants(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	q, ok := ref.ValueByName("q")
	require.True(t, ok)
	q.External = true

	payload := cty.NumberIntVal(7)
	mat := backend.NewInlineMaterializer(map[string]cty.Value{"q": payload})
	p := New(&fakeBackend{}, mat, nil, selection.DefaultPredicate())

	res, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)

	builtQ, ok := res.Graph.ValueByName("q")
	require.True(t, ok)
	assert.False(t, builtQ.External)
	require.NotNil(t, builtQ.Inline)

	refQ, _ := ref.ValueByName("q")
	assert.True(t, refQ.External, "materialization happens on the clone only")
}

func TestPartition_MissingPayloadIsFatal(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	q, _ := ref.ValueByName("q")
	q.External = true

	p := New(&fakeBackend{}, backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())
	_, err := p.Partition(context.Background(), ref)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload registered")
}

func TestPartition_OuterScopeCaptureIsPromoted(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	owner, err := ref.AddNode("if1", "If",
		[]*graph.Value{ref.GetOrCreateValue("y", graph.TypeFloat32)},
		[]*graph.Value{fval("out")})
	require.NoError(t, err)
	sub := graph.New("if1_then")
	_, err = sub.AddNode("inner", "Relu",
		[]*graph.Value{sub.GetOrCreateValue("cap", graph.TypeFloat32)},
		[]*graph.Value{fval("res")})
	require.NoError(t, err)
	sub.MarkOutput(sub.GetOrCreateValue("res", graph.TypeFloat32))
	owner.AttachSubgraph("then", sub)
	owner.AddImplicitInput(fval("cap"))
	ref.MarkOutput(ref.GetOrCreateValue("out", graph.TypeFloat32))

	p := New(&fakeBackend{}, backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())
	res, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)

	names := make([]string, 0, len(res.Graph.Inputs()))
	for _, v := range res.Graph.Inputs() {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "cap", "the capture becomes a synthetic top-level input")
	assert.NotContains(t, inputNames(ref), "cap", "the reference graph keeps its declared inputs")
}

func inputNames(g *graph.Graph) []string {
	names := make([]string, 0, len(g.Inputs()))
	for _, v := range g.Inputs() {
		names = append(names, v.Name)
	}
	return names
}

func TestPartition_BackendErrorPropagates(t *testing.T) {
	t.Parallel()

	p := New(&fakeBackend{parseErr: errors.New("parser exploded")},
		backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())
	_, err := p.Partition(context.Background(), dqChain(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parser exploded")
}

func TestPartition_Deterministic(t *testing.T) {
	t.Parallel()

	ref := dqChain(t)
	p := New(&fakeBackend{}, backend.NewInlineMaterializer(nil), nil, selection.DefaultPredicate())

	first, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)
	second, err := p.Partition(context.Background(), ref)
	require.NoError(t, err)

	require.Equal(t, len(first.Capabilities), len(second.Capabilities))
	for i := range first.Capabilities {
		assert.Equal(t, first.Capabilities[i].Nodes, second.Capabilities[i].Nodes)
	}
}

func TestFoldConstants(t *testing.T) {
	t.Parallel()

	g := dqChain(t)
	dq, _ := g.NodeByName("dq")
	mm, _ := g.NodeByName("mm")

	require.NoError(t, FoldConstants(g, []int{dq.Index()}))

	assert.Nil(t, g.NodeAt(dq.Index()), "the folded node is tombstoned")
	assert.Equal(t, "q", mm.Inputs()[0].Name, "the consumer reads the constant directly")

	// Folding an already-removed node is a no-op.
	require.NoError(t, FoldConstants(g, []int{dq.Index()}))
}
