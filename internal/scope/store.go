package scope

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/graphid"
)

// Materializer converts an out-of-line-stored constant into an inline
// representation embedded in the graph. The store invokes it for every
// externally-sourced input it records; implementations are expected to
// no-op for values that are already inline.
type Materializer interface {
	MaterializeInline(ctx context.Context, g *graph.Graph, name string) error
}

// Store is the per-attempt registry mapping graph identity to scope
// Context. It is built once per partitioning attempt and consulted by all
// later passes. Not safe for concurrent builds; callers running attempts in
// parallel must give each attempt its own Store.
type Store struct {
	contexts     map[graphid.ID]*Context
	materializer Materializer
}

// NewStore creates an empty store backed by the given materializer.
func NewStore(m Materializer) *Store {
	return &Store{
		contexts:     make(map[graphid.ID]*Context),
		materializer: m,
	}
}

// Lookup returns the context for a graph, if one has been built.
func (s *Store) Lookup(g *graph.Graph) (*Context, bool) {
	sc, ok := s.contexts[graphid.Identify(g)]
	return sc, ok
}

// Build records scope information for the graph and every nested subgraph,
// innermost subgraphs first. Building is idempotent per graph identity: a
// second build for the same identity is a no-op.
//
// Recording an external input triggers inline materialization of its
// constant payload. That side effect has no rollback; a materialization
// failure aborts the build and the store must be discarded.
func (s *Store) Build(ctx context.Context, g *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	for i := 0; i < g.MaxNodeIndex(); i++ {
		n := g.NodeAt(i)
		if n == nil {
			continue
		}
		for _, sub := range n.Subgraphs() {
			if err := s.Build(ctx, sub); err != nil {
				return err
			}
		}
	}

	id := graphid.Identify(g)
	if _, ok := s.contexts[id]; ok {
		return nil
	}
	sc := NewContext()
	s.contexts[id] = sc
	logger.Debug("Building subgraph context.", "graph", g.Name(), "id", string(id))

	for i := 0; i < g.MaxNodeIndex(); i++ {
		n := g.NodeAt(i)
		if n == nil {
			continue
		}
		for _, out := range n.Outputs() {
			sc.RecordOutput(out.Name)
		}
	}

	for i := 0; i < g.MaxNodeIndex(); i++ {
		n := g.NodeAt(i)
		if n == nil {
			continue
		}
		for _, in := range n.Inputs() {
			if sc.HasOutput(in.Name) {
				continue
			}
			// Not produced by another node here, so it must come from a
			// graph input, an initializer, or an enclosing scope.
			sc.RecordInput(in)
			if err := s.materializer.MaterializeInline(ctx, g, in.Name); err != nil {
				return fmt.Errorf("materializing constant %q in graph %q: %w", in.Name, g.Name(), err)
			}
		}
	}
	return nil
}

// IsLocalValue reports whether the named value is produced by a node in the
// graph or recorded as one of its effective inputs or initializers.
func (s *Store) IsLocalValue(g *graph.Graph, name string) bool {
	sc, ok := s.contexts[graphid.Identify(g)]
	if !ok {
		return false
	}
	return sc.HasOutput(name) || sc.HasInput(name)
}

// IsInputInitializerOrOutput reports whether the named value resolves
// locally in the graph, or, when checkAncestors is set, in any enclosing
// graph.
func (s *Store) IsInputInitializerOrOutput(g *graph.Graph, name string, checkAncestors bool) bool {
	if s.IsLocalValue(g, name) {
		return true
	}
	parent := g.ParentGraph()
	return checkAncestors && parent != nil && s.IsInputInitializerOrOutput(parent, name, checkAncestors)
}

// IsOuterScopeValue reports whether the named value resolves in some
// strictly enclosing graph of g.
func (s *Store) IsOuterScopeValue(g *graph.Graph, name string) bool {
	parent := g.ParentGraph()
	return parent != nil && s.IsInputInitializerOrOutput(parent, name, true)
}
