package partition

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/scope"
	"github.com/vk/tensorgridgo/internal/selection"
)

// Validator performs full structural validation of a graph once its input
// list has been finalized. A validation failure is fatal for compiling the
// graph.
type Validator interface {
	Resolve(ctx context.Context, g *graph.Graph) error
}

// Partitioner runs partitioning attempts against one backend.
type Partitioner struct {
	backend      backend.Backend
	materializer scope.Materializer
	validator    Validator
	pred         selection.Predicate
}

// New creates a partitioner. A nil validator defaults to the structural
// validator.
func New(b backend.Backend, m scope.Materializer, v Validator, pred selection.Predicate) *Partitioner {
	if v == nil {
		v = backend.StructuralValidator{}
	}
	return &Partitioner{backend: b, materializer: m, validator: v, pred: pred}
}

// Result is the outcome of one partitioning attempt.
type Result struct {
	// Graph is the resolved built graph the capabilities refer to.
	Graph *graph.Graph
	// Capabilities are the backend-accepted node subsets, as node indices.
	Capabilities []*selection.Capability
	// Optimizations are the reconciled auxiliary-node capabilities, one per
	// accepted capability that overlaps the auxiliary selection.
	Optimizations []*selection.Capability
	// AuxiliarySelected is the full auxiliary-node selection for the graph.
	AuxiliarySelected map[int]struct{}
}

// Partition runs one complete partitioning attempt over a reference graph.
// The attempt uses a fresh scope store; on error the partial state is
// dropped and nothing is reusable.
func (p *Partitioner) Partition(ctx context.Context, ref *graph.Graph) (*Result, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Partitioning started.", "graph", ref.Name(), "backend", p.backend.Name())

	built := ref.Clone()
	store := scope.NewStore(p.materializer)

	if err := store.Build(ctx, built); err != nil {
		return nil, fmt.Errorf("building subgraph contexts for %q: %w", ref.Name(), err)
	}
	if err := store.ResolveOuterScope(ctx, built, ref); err != nil {
		return nil, fmt.Errorf("resolving outer-scope values for %q: %w", ref.Name(), err)
	}
	finalizeTree(store, built)

	if err := p.validator.Resolve(ctx, built); err != nil {
		return nil, fmt.Errorf("validating %q: %w", ref.Name(), err)
	}

	auxSelected, consumerToAux := selection.SelectAuxiliary(ctx, built, p.pred)

	topo := built.TopologicalOrder()
	proposed := &selection.Subset{Positions: make([]int, len(topo)), Supported: true}
	for i := range topo {
		proposed.Positions[i] = i
	}

	subsets, err := p.backend.ParseGraph(ctx, built, proposed)
	if err != nil {
		return nil, fmt.Errorf("backend %q parsing %q: %w", p.backend.Name(), ref.Name(), err)
	}

	for _, subset := range subsets {
		selection.Augment(ctx, built, subset, subsets, consumerToAux)
	}

	result := &Result{
		Graph:             built,
		AuxiliarySelected: auxSelected,
	}

	selectionCap := auxiliaryCapability(auxSelected)
	for _, subset := range subsets {
		if !subset.Supported {
			continue
		}
		accepted := &selection.Capability{Nodes: make([]int, 0, len(subset.Positions))}
		for _, pos := range subset.Positions {
			if pos >= 0 && pos < len(topo) {
				accepted.Nodes = append(accepted.Nodes, topo[pos])
			}
		}
		result.Capabilities = append(result.Capabilities, accepted)

		if selectionCap != nil {
			opt := selection.Reconcile(selectionCap, auxSelected, accepted)
			if len(opt.Nodes) > 0 {
				result.Optimizations = append(result.Optimizations, opt)
			}
		}
	}

	logger.Debug("Partitioning finished.",
		"graph", ref.Name(),
		"capabilities", len(result.Capabilities),
		"optimizations", len(result.Optimizations),
		"auxiliary_selected", len(auxSelected),
	)
	return result, nil
}

// finalizeTree applies input finalization to a graph and every nested
// subgraph. Only graphs whose context recorded promoted inputs change.
func finalizeTree(store *scope.Store, g *graph.Graph) {
	store.FinalizeInputs(g)
	for _, n := range g.Nodes() {
		for _, sub := range n.Subgraphs() {
			finalizeTree(store, sub)
		}
	}
}

// auxiliaryCapability wraps the auxiliary selection as a capability with the
// constant-folding rewrite attached, in ascending index order.
func auxiliaryCapability(selected map[int]struct{}) *selection.Capability {
	if len(selected) == 0 {
		return nil
	}
	nodes := make([]int, 0, len(selected))
	for idx := range selected {
		nodes = append(nodes, idx)
	}
	sort.Ints(nodes)
	return &selection.Capability{Nodes: nodes, Optimize: FoldConstants}
}
