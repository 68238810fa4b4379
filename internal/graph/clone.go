package graph

// Clone deep-copies the graph and all of its nested subgraphs. Every copied
// node and subgraph keeps a cross-reference to the element it was cloned
// from, so later passes that walk a built graph alongside its reference
// graph can match elements without name-based search. Tombstoned arena
// slots are preserved so node indices stay aligned with the source.
func (g *Graph) Clone() *Graph {
	cp := New(g.name)
	cp.source = g

	for name, v := range g.values {
		cp.values[name] = v.clone()
	}
	for _, v := range g.inputs {
		cp.inputs = append(cp.inputs, cp.valueRef(v))
	}
	for _, v := range g.initializers {
		iv := cp.valueRef(v)
		cp.initializers = append(cp.initializers, iv)
		cp.initializersByName[iv.Name] = iv
	}
	for _, v := range g.outputs {
		ov := cp.valueRef(v)
		cp.outputs = append(cp.outputs, ov)
		cp.outputsByName[ov.Name] = ov
	}
	for name := range g.outerScope {
		cp.outerScope[name] = struct{}{}
	}

	for _, n := range g.nodes {
		if n == nil {
			cp.nodes = append(cp.nodes, nil)
			continue
		}
		nn := &Node{
			index:  n.index,
			name:   n.name,
			op:     n.op,
			owner:  cp,
			source: n,
		}
		for _, v := range n.inputs {
			nn.inputs = append(nn.inputs, cp.valueRef(v))
		}
		for _, v := range n.outputs {
			nn.outputs = append(nn.outputs, cp.valueRef(v))
		}
		// Implicit inputs reference enclosing scopes, so they are copied as
		// standalone descriptors rather than resolved against this graph.
		for _, v := range n.implicit {
			nn.implicit = append(nn.implicit, v.clone())
		}
		for attr, sub := range n.subgraphs {
			nn.AttachSubgraph(attr, sub.Clone())
		}
		cp.nodes = append(cp.nodes, nn)
	}
	return cp
}

// valueRef resolves a source value to its copy in this graph, registering a
// fresh copy if the name was somehow not carried over.
func (g *Graph) valueRef(v *Value) *Value {
	if existing, ok := g.values[v.Name]; ok {
		return existing
	}
	cp := v.clone()
	g.values[cp.Name] = cp
	return cp
}
