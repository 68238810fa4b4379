package graph

// Node is a single operation in a computation graph. Nodes are created via
// Graph.AddNode, which assigns a stable index within the owning graph.
type Node struct {
	index int
	name  string
	op    string
	owner *Graph

	inputs  []*Value
	outputs []*Value

	// implicit holds the outer-scope values this node's subgraphs consume
	// from enclosing scopes. Only control-flow nodes carry these.
	implicit []*Value

	// subgraphs maps attribute names to nested graphs owned by this node.
	subgraphs map[string]*Graph

	// source links a node in a built (cloned) graph back to the node it was
	// cloned from in the reference graph. Nil for nodes created directly.
	source *Node
}

// Index returns the node's stable index within its owning graph.
func (n *Node) Index() int { return n.index }

// Name returns the node's name.
func (n *Node) Name() string { return n.name }

// Op returns the node's operation type tag.
func (n *Node) Op() string { return n.op }

// Graph returns the graph that owns this node.
func (n *Node) Graph() *Graph { return n.owner }

// Inputs returns the node's ordered input values.
func (n *Node) Inputs() []*Value { return n.inputs }

// Outputs returns the node's ordered output values.
func (n *Node) Outputs() []*Value { return n.outputs }

// ImplicitInputs returns the outer-scope values declared on this node for
// consumption by its subgraphs.
func (n *Node) ImplicitInputs() []*Value { return n.implicit }

// AddImplicitInput declares an outer-scope value consumed by this node's
// subgraphs. Duplicate names are ignored.
func (n *Node) AddImplicitInput(v *Value) {
	for _, existing := range n.implicit {
		if existing.Name == v.Name {
			return
		}
	}
	n.implicit = append(n.implicit, v)
}

// Subgraphs returns the node's nested subgraphs keyed by attribute name.
// The returned map is the live map; callers must not mutate it.
func (n *Node) Subgraphs() map[string]*Graph { return n.subgraphs }

// Subgraph returns the nested graph stored under the given attribute name.
func (n *Node) Subgraph(attr string) (*Graph, bool) {
	sub, ok := n.subgraphs[attr]
	return sub, ok
}

// AttachSubgraph stores a nested graph under the given attribute name and
// wires the subgraph's upward parent links.
func (n *Node) AttachSubgraph(attr string, sub *Graph) {
	if n.subgraphs == nil {
		n.subgraphs = make(map[string]*Graph)
	}
	n.subgraphs[attr] = sub
	sub.parentNode = n
	sub.parentGraph = n.owner
}

// Source returns the reference node this node was cloned from, or nil if
// the node was not produced by Graph.Clone.
func (n *Node) Source() *Node { return n.source }
