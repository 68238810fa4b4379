package selection

import (
	"context"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
)

// Predicate describes the auxiliary node pattern: a dequantization-style
// unary transform whose qualifying input is a constant of a restricted
// element type set. The pattern is configurable because the qualifying op
// and types are expected to grow over time.
type Predicate struct {
	// Op is the operation tag an auxiliary node must carry.
	Op string
	// Types are the element types allowed for the node's constant input.
	Types []graph.DataType
}

// DefaultPredicate matches DequantizeLinear nodes fed by int32, int16 or
// uint16 constants.
func DefaultPredicate() Predicate {
	return Predicate{
		Op:    "DequantizeLinear",
		Types: []graph.DataType{graph.TypeInt32, graph.TypeInt16, graph.TypeUInt16},
	}
}

// Allows reports whether the element type is in the predicate's allowed set.
func (p Predicate) Allows(t graph.DataType) bool {
	for _, allowed := range p.Types {
		if allowed == t {
			return true
		}
	}
	return false
}

// SelectAuxiliary scans the graph in priority topological order and flags
// every node matching the auxiliary pattern:
//
//  1. the op tag matches the predicate,
//  2. the node has exactly one consuming edge,
//  3. none of its outputs is a graph output,
//  4. its first input is a constant initializer, and
//  5. that constant's element type is allowed by the predicate.
//
// It returns the selected node-index set and a map from each selected
// node's sole consumer index to the selected node's index. Ties in the
// topological order do not affect the result since the map is keyed by
// consumer identity.
func SelectAuxiliary(ctx context.Context, g *graph.Graph, pred Predicate) (map[int]struct{}, map[int]int) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Selecting qualified auxiliary nodes.", "op", pred.Op)

	selected := make(map[int]struct{})
	consumerToAux := make(map[int]int)

	for _, index := range g.TopologicalOrder() {
		n := g.NodeAt(index)
		if n == nil {
			continue
		}
		if n.Op() != pred.Op || len(n.Inputs()) == 0 {
			continue
		}
		if g.OutputEdgeCount(n) != 1 {
			continue
		}
		producesGraphOutput := false
		for _, out := range n.Outputs() {
			if g.IsOutput(out.Name) {
				producesGraphOutput = true
				break
			}
		}
		if producesGraphOutput {
			continue
		}

		qualifying := n.Inputs()[0]
		if !g.IsConstantInitializer(qualifying.Name, true) {
			continue
		}
		if !pred.Allows(qualifying.Type) {
			continue
		}

		consumer, ok := g.SoleConsumer(n)
		if !ok {
			continue
		}
		selected[index] = struct{}{}
		consumerToAux[consumer.Index()] = index
		logger.Debug("Auxiliary node selected.", "node", n.Name(), "consumer", consumer.Name())
	}

	logger.Debug("Auxiliary node selection complete.", "selected", len(selected))
	return selected, consumerToAux
}
