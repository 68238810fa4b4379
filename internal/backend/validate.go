package backend

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
)

// StructuralValidator performs the post-resolution structural check of a
// graph: every value consumed anywhere in the graph tree must resolve to a
// locally produced value, a declared input or initializer, a value marked
// as outer-scope, or a value resolvable in some enclosing graph. Any
// dangling reference fails validation, which is fatal for compiling the
// graph.
type StructuralValidator struct{}

// Resolve validates the graph and all nested subgraphs.
func (StructuralValidator) Resolve(ctx context.Context, g *graph.Graph) error {
	if err := g.DetectCycles(); err != nil {
		return fmt.Errorf("graph %q: %w", g.Name(), err)
	}

	bound := boundNames(g)
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			if resolvable(g, bound, in.Name) {
				continue
			}
			return fmt.Errorf("graph %q: node %q consumes unresolvable value %q", g.Name(), n.Name(), in.Name)
		}
		for _, sub := range n.Subgraphs() {
			if err := (StructuralValidator{}).Resolve(ctx, sub); err != nil {
				return err
			}
		}
	}
	ctxlog.FromContext(ctx).Debug("Graph passed structural validation.", "graph", g.Name())
	return nil
}

// boundNames collects every name bound inside the graph itself: node
// outputs, declared inputs, initializers and outer-scope markers.
func boundNames(g *graph.Graph) map[string]struct{} {
	bound := make(map[string]struct{})
	for _, n := range g.Nodes() {
		for _, out := range n.Outputs() {
			bound[out.Name] = struct{}{}
		}
	}
	for _, v := range g.InputsIncludingInitializers() {
		bound[v.Name] = struct{}{}
	}
	for name := range g.OuterScopeValues() {
		bound[name] = struct{}{}
	}
	return bound
}

// resolvable reports whether the name is bound in g or in any enclosing
// graph of g.
func resolvable(g *graph.Graph, bound map[string]struct{}, name string) bool {
	if _, ok := bound[name]; ok {
		return true
	}
	for parent := g.ParentGraph(); parent != nil; parent = parent.ParentGraph() {
		if _, ok := boundNames(parent)[name]; ok {
			return true
		}
	}
	return false
}
