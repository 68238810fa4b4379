package selection

import "github.com/vk/tensorgridgo/internal/graph"

// RewriteFunc is an optimization behavior attached to a capability. It is
// invoked later, by whoever applies the capability, to rewrite the selected
// nodes in place.
type RewriteFunc func(g *graph.Graph, nodes []int) error

// Capability is an ordered set of node indices within one graph plus the
// optimization behavior to apply to them. All indices must belong to the
// same graph and must have existed when the capability was produced.
type Capability struct {
	Nodes    []int
	Optimize RewriteFunc
}

// NodeSet returns the capability's node indices as a set.
func (c *Capability) NodeSet() map[int]struct{} {
	set := make(map[int]struct{}, len(c.Nodes))
	for _, idx := range c.Nodes {
		set[idx] = struct{}{}
	}
	return set
}

// Subset is a backend parser's verdict over a proposed node list. Positions
// index into the graph's priority topological order, not the node arena;
// Supported is false when the parser rejected the run entirely.
type Subset struct {
	Positions []int
	Supported bool
}

// Len returns the number of positions in the subset.
func (s *Subset) Len() int { return len(s.Positions) }
