package selection

import (
	"context"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
)

// Augment re-admits auxiliary nodes the backend parser filtered out of an
// accepted subset. For every accepted node with a mapped auxiliary node, the
// auxiliary node's topological position is appended to the subset, unless
// that auxiliary node already appears in any candidate subset of the
// collection. The operation is purely additive: no previously accepted
// position is ever removed.
func Augment(ctx context.Context, g *graph.Graph, accepted *Subset, all []*Subset, consumerToAux map[int]int) {
	if len(consumerToAux) == 0 {
		return
	}
	if !accepted.Supported {
		return
	}
	logger := ctxlog.FromContext(ctx)

	topo := g.TopologicalOrder()

	// Snapshot the accepted positions; appends below must not extend the
	// iteration.
	snapshot := make([]int, len(accepted.Positions))
	copy(snapshot, accepted.Positions)

	for _, pos := range snapshot {
		if pos < 0 || pos >= len(topo) {
			continue
		}
		auxIndex, ok := consumerToAux[topo[pos]]
		if !ok {
			continue
		}
		if containsNode(all, topo, auxIndex) {
			// Already covered by some candidate subset.
			continue
		}
		for auxPos, index := range topo {
			if index == auxIndex {
				accepted.Positions = append(accepted.Positions, auxPos)
				if n := g.NodeAt(auxIndex); n != nil {
					logger.Debug("Auxiliary node re-admitted after parser filtering.", "node", n.Name())
				}
				break
			}
		}
	}
}

// containsNode reports whether the node index appears, via topological
// position, in any subset of the collection.
func containsNode(all []*Subset, topo []int, nodeIndex int) bool {
	for _, subset := range all {
		for _, pos := range subset.Positions {
			if pos >= 0 && pos < len(topo) && topo[pos] == nodeIndex {
				return true
			}
		}
	}
	return false
}
