package graph

import "fmt"

// Graph is a directed acyclic graph of operation nodes. A graph is either
// the root of a model or a subgraph owned by exactly one control-flow node
// in an enclosing graph.
type Graph struct {
	name string

	// nodes is a sparse arena. A nil slot is a tombstone left by RemoveNode;
	// indices are never reused.
	nodes []*Node

	// values indexes every value descriptor known to this graph scope by
	// name: node inputs, node outputs, declared inputs and initializers.
	values map[string]*Value

	inputs             []*Value
	initializers       []*Value
	initializersByName map[string]*Value

	outputs       []*Value
	outputsByName map[string]*Value

	// outerScope records value names this graph consumes from enclosing
	// scopes, as marked during scope resolution.
	outerScope map[string]struct{}

	parentNode  *Node
	parentGraph *Graph

	// source links a built (cloned) graph back to its reference graph.
	source *Graph
}

// New creates an empty graph with the given name.
func New(name string) *Graph {
	return &Graph{
		name:               name,
		values:             make(map[string]*Value),
		initializersByName: make(map[string]*Value),
		outputsByName:      make(map[string]*Value),
		outerScope:         make(map[string]struct{}),
	}
}

// Name returns the graph's declared name.
func (g *Graph) Name() string { return g.name }

// ParentNode returns the control-flow node owning this subgraph, or nil for
// a root graph.
func (g *Graph) ParentNode() *Node { return g.parentNode }

// ParentGraph returns the enclosing graph, or nil for a root graph.
func (g *Graph) ParentGraph() *Graph { return g.parentGraph }

// Root walks the parent links up to the top-level ancestor graph.
func (g *Graph) Root() *Graph {
	root := g
	for root.parentGraph != nil {
		root = root.parentGraph
	}
	return root
}

// Source returns the reference graph this graph was cloned from, or nil.
func (g *Graph) Source() *Graph { return g.source }

// MaxNodeIndex returns the arena size. Slots below this index may be
// tombstones; use NodeAt to check.
func (g *Graph) MaxNodeIndex() int { return len(g.nodes) }

// NodeAt returns the node at the given arena index, or nil if the index is
// out of range or the slot is a tombstone.
func (g *Graph) NodeAt(index int) *Node {
	if index < 0 || index >= len(g.nodes) {
		return nil
	}
	return g.nodes[index]
}

// Nodes returns all live nodes in arena order, skipping tombstones.
func (g *Graph) Nodes() []*Node {
	live := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n != nil {
			live = append(live, n)
		}
	}
	return live
}

// NodeByName returns the first live node with the given name.
func (g *Graph) NodeByName(name string) (*Node, bool) {
	for _, n := range g.nodes {
		if n != nil && n.name == name {
			return n, true
		}
	}
	return nil, false
}

// AddNode appends a new node to the arena and registers its input and
// output values in the graph's value table. An error is returned when an
// output value is already produced by another node.
func (g *Graph) AddNode(name, op string, inputs, outputs []*Value) (*Node, error) {
	for _, out := range outputs {
		// Pointer identity is irrelevant here: reusing the registered
		// descriptor for a second producer is just as invalid as passing a
		// fresh one.
		if g.producerOf(out.Name) != nil {
			return nil, fmt.Errorf("value %q already produced by another node in graph %q", out.Name, g.name)
		}
	}
	n := &Node{
		index:   len(g.nodes),
		name:    name,
		op:      op,
		owner:   g,
		inputs:  inputs,
		outputs: outputs,
	}
	g.nodes = append(g.nodes, n)
	for _, v := range inputs {
		g.registerValue(v)
	}
	for _, v := range outputs {
		g.registerValue(v)
	}
	return n, nil
}

// RemoveNode tombstones the node at the given index. The index is never
// reused for later additions.
func (g *Graph) RemoveNode(index int) {
	if index >= 0 && index < len(g.nodes) {
		g.nodes[index] = nil
	}
}

// registerValue indexes a value descriptor by name. The first descriptor
// registered under a name wins; later registrations of the same name are
// assumed to refer to the same value.
func (g *Graph) registerValue(v *Value) {
	if _, ok := g.values[v.Name]; !ok {
		g.values[v.Name] = v
	}
}

// ValueByName looks up a value descriptor anywhere in this graph scope.
func (g *Graph) ValueByName(name string) (*Value, bool) {
	v, ok := g.values[name]
	return v, ok
}

// GetOrCreateValue returns the descriptor registered under name, creating
// one with the given type if none exists yet.
func (g *Graph) GetOrCreateValue(name string, t DataType) *Value {
	if v, ok := g.values[name]; ok {
		return v
	}
	v := &Value{Name: name, Type: t}
	g.values[name] = v
	return v
}

// producerOf returns the live node producing the named value, or nil.
func (g *Graph) producerOf(name string) *Node {
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		for _, out := range n.outputs {
			if out.Name == name {
				return n
			}
		}
	}
	return nil
}

// AddInput declares a graph input. Duplicate names are ignored.
func (g *Graph) AddInput(v *Value) {
	for _, existing := range g.inputs {
		if existing.Name == v.Name {
			return
		}
	}
	g.inputs = append(g.inputs, v)
	g.registerValue(v)
}

// SetInputs replaces the graph's declared input list.
func (g *Graph) SetInputs(inputs []*Value) {
	g.inputs = inputs
	for _, v := range inputs {
		g.registerValue(v)
	}
}

// Inputs returns the graph's declared inputs, excluding initializers.
func (g *Graph) Inputs() []*Value { return g.inputs }

// AddInitializer declares a constant initializer value. Duplicate names are
// ignored.
func (g *Graph) AddInitializer(v *Value) {
	if _, ok := g.initializersByName[v.Name]; ok {
		return
	}
	v.Const = true
	g.initializers = append(g.initializers, v)
	g.initializersByName[v.Name] = v
	g.registerValue(v)
}

// Initializers returns the graph's initializers in declaration order.
func (g *Graph) Initializers() []*Value { return g.initializers }

// IsConstantInitializer reports whether the named value is an initializer.
// With checkOuterScope set, enclosing graphs are consulted as well.
func (g *Graph) IsConstantInitializer(name string, checkOuterScope bool) bool {
	if _, ok := g.initializersByName[name]; ok {
		return true
	}
	if checkOuterScope && g.parentGraph != nil {
		return g.parentGraph.IsConstantInitializer(name, checkOuterScope)
	}
	return false
}

// InputsIncludingInitializers returns declared inputs followed by
// initializers, preserving declaration order within each group.
func (g *Graph) InputsIncludingInitializers() []*Value {
	combined := make([]*Value, 0, len(g.inputs)+len(g.initializers))
	combined = append(combined, g.inputs...)
	seen := make(map[string]struct{}, len(g.inputs))
	for _, v := range g.inputs {
		seen[v.Name] = struct{}{}
	}
	for _, v := range g.initializers {
		if _, ok := seen[v.Name]; !ok {
			combined = append(combined, v)
		}
	}
	return combined
}

// MarkOutput declares a value as a graph output.
func (g *Graph) MarkOutput(v *Value) {
	if _, ok := g.outputsByName[v.Name]; ok {
		return
	}
	g.outputs = append(g.outputs, v)
	g.outputsByName[v.Name] = v
	g.registerValue(v)
}

// Outputs returns the graph's declared outputs.
func (g *Graph) Outputs() []*Value { return g.outputs }

// IsOutput reports whether the named value is a graph output.
func (g *Graph) IsOutput(name string) bool {
	_, ok := g.outputsByName[name]
	return ok
}

// AddOuterScopeValue marks a value name as supplied by an enclosing scope,
// so downstream validation treats it as bound rather than dangling.
func (g *Graph) AddOuterScopeValue(name string) {
	g.outerScope[name] = struct{}{}
}

// OuterScopeValues returns the set of names marked as outer-scope values.
func (g *Graph) OuterScopeValues() map[string]struct{} { return g.outerScope }
