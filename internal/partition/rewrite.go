package partition

import (
	"fmt"

	"github.com/vk/tensorgridgo/internal/graph"
)

// FoldConstants is the optimization behavior attached to the auxiliary-node
// capability. For each selected node it re-binds the sole consumer directly
// to the node's constant input and tombstones the node, leaving the arena
// index unused. Nodes whose shape no longer matches the auxiliary pattern
// (already removed, or no longer single-consumer) are skipped.
func FoldConstants(g *graph.Graph, nodes []int) error {
	for _, index := range nodes {
		n := g.NodeAt(index)
		if n == nil {
			continue
		}
		if len(n.Inputs()) == 0 || len(n.Outputs()) == 0 {
			return fmt.Errorf("node %q cannot be folded: missing inputs or outputs", n.Name())
		}
		consumer, ok := g.SoleConsumer(n)
		if !ok {
			continue
		}
		constant := n.Inputs()[0]
		produced := n.Outputs()[0]
		inputs := consumer.Inputs()
		for i, in := range inputs {
			if in.Name == produced.Name {
				inputs[i] = constant
			}
		}
		g.RemoveNode(index)
	}
	return nil
}
