package scope

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/graphid"
)

// ResolveOuterScope walks a built graph alongside its reference graph and
// makes every outer-scope reference of every nested subgraph resolvable:
// either through an existing input at some enclosing level, or by promoting
// the value to a synthetic input on the top-level ancestor graph.
//
// Subgraph pairs are matched through the cross-references captured when the
// built graph was cloned; a built node without a source is skipped silently.
// Resolution runs innermost-first so captures settle before their enclosing
// scopes are examined.
//
// The top-level ancestor's context must already exist; a missing context
// means Build was not run first and is a hard error.
func (s *Store) ResolveOuterScope(ctx context.Context, built, ref *graph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	for i := 0; i < built.MaxNodeIndex(); i++ {
		n := built.NodeAt(i)
		if n == nil {
			continue
		}
		src := n.Source()
		if src == nil {
			// No counterpart in the reference graph; nothing to resolve.
			continue
		}
		for attr, subBuilt := range n.Subgraphs() {
			subRef, ok := src.Subgraph(attr)
			if !ok {
				continue
			}
			if err := s.ResolveOuterScope(ctx, subBuilt, subRef); err != nil {
				return err
			}
		}
	}

	if built.ParentNode() == nil {
		return nil
	}
	refParent := ref.ParentNode()
	if refParent == nil {
		return nil
	}

	top := built.Root()
	topCtx, ok := s.contexts[graphid.Identify(top)]
	if !ok {
		return fmt.Errorf("no context for top-level graph %q: subgraph contexts must be built before outer-scope resolution", top.Name())
	}

	logger.Debug("Resolving outer-scope values.", "subgraph", built.Name(), "parent_node", refParent.Name())

	for _, implicit := range refParent.ImplicitInputs() {
		// The parent node's implicit inputs can belong to a sibling
		// subgraph (an If node owns two), so only values actually named in
		// this subgraph count.
		if _, used := built.ValueByName(implicit.Name); !used {
			continue
		}
		built.AddOuterScopeValue(implicit.Name)
		logger.Debug("Outer-scope value used in subgraph.", "value", implicit.Name, "subgraph", built.Name())

		if topCtx.HasManualInput(implicit.Name) {
			// Already promoted during an earlier pass over a sibling.
			continue
		}
		if s.IsOuterScopeValue(built, implicit.Name) {
			continue
		}

		if declaredInput(top, implicit.Name) {
			continue
		}
		promoted := top.GetOrCreateValue(implicit.Name, implicit.Type)
		topCtx.RecordManualInput(promoted)
		logger.Debug("Promoted outer-scope value to top-level input.", "value", promoted.Name, "graph", top.Name())
	}
	return nil
}

// declaredInput reports whether the graph already declares the named value
// among its inputs or initializers.
func declaredInput(g *graph.Graph, name string) bool {
	for _, v := range g.InputsIncludingInitializers() {
		if v.Name == name {
			return true
		}
	}
	return false
}
