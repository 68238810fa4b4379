package graph

import "fmt"

// producerIndex maps every value name produced inside the graph to the
// arena index of its producing node.
func (g *Graph) producerIndex() map[string]int {
	producers := make(map[string]int)
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		for _, out := range n.outputs {
			producers[out.Name] = n.index
		}
	}
	return producers
}

// TopologicalOrder returns the arena indices of all live nodes in a
// priority-based topological order: whenever several nodes are ready, the
// one with the lowest arena index is emitted first, making the order
// deterministic across runs.
//
// The graph must be acyclic. Nodes trapped in a cycle never become ready and
// are silently omitted from the result; run DetectCycles first when the
// graph has not already been validated.
func (g *Graph) TopologicalOrder() []int {
	producers := g.producerIndex()

	indegree := make(map[int]int)
	dependents := make(map[int][]int)
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		indegree[n.index] = 0
	}
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		for _, in := range n.inputs {
			producer, ok := producers[in.Name]
			if !ok || producer == n.index {
				continue
			}
			indegree[n.index]++
			dependents[producer] = append(dependents[producer], n.index)
		}
	}

	var ready []int
	for _, n := range g.nodes {
		if n != nil && indegree[n.index] == 0 {
			ready = append(ready, n.index)
		}
	}

	order := make([]int, 0, len(indegree))
	for len(ready) > 0 {
		// Pick the lowest-index ready node.
		best := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[best] {
				best = i
			}
		}
		next := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		order = append(order, next)

		for _, dep := range dependents[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	return order
}

// DetectCycles checks for circular data dependencies between nodes using
// depth-first search over producer edges.
func (g *Graph) DetectCycles() error {
	producers := g.producerIndex()
	visiting := make(map[int]bool)
	visited := make(map[int]bool)

	var visit func(n *Node) error
	visit = func(n *Node) error {
		visiting[n.index] = true
		for _, in := range n.inputs {
			producer, ok := producers[in.Name]
			if !ok || producer == n.index {
				continue
			}
			dep := g.nodes[producer]
			if dep == nil {
				continue
			}
			if visiting[dep.index] {
				return fmt.Errorf("cycle detected involving node %q", dep.name)
			}
			if !visited[dep.index] {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		delete(visiting, n.index)
		visited[n.index] = true
		return nil
	}

	for _, n := range g.nodes {
		if n == nil || visited[n.index] {
			continue
		}
		if err := visit(n); err != nil {
			return err
		}
	}
	return nil
}

// OutputEdgeCount counts the consuming edges of a node: every input of
// every live node in the same graph that reads one of n's outputs.
func (g *Graph) OutputEdgeCount(n *Node) int {
	produced := make(map[string]struct{}, len(n.outputs))
	for _, out := range n.outputs {
		produced[out.Name] = struct{}{}
	}
	count := 0
	for _, consumer := range g.nodes {
		if consumer == nil || consumer.index == n.index {
			continue
		}
		for _, in := range consumer.inputs {
			if _, ok := produced[in.Name]; ok {
				count++
			}
		}
	}
	return count
}

// SoleConsumer returns the single node consuming n's outputs, when n has
// exactly one consuming edge.
func (g *Graph) SoleConsumer(n *Node) (*Node, bool) {
	produced := make(map[string]struct{}, len(n.outputs))
	for _, out := range n.outputs {
		produced[out.Name] = struct{}{}
	}
	var consumer *Node
	edges := 0
	for _, candidate := range g.nodes {
		if candidate == nil || candidate.index == n.index {
			continue
		}
		for _, in := range candidate.inputs {
			if _, ok := produced[in.Name]; ok {
				edges++
				consumer = candidate
			}
		}
	}
	if edges != 1 {
		return nil, false
	}
	return consumer, true
}
