package builder

import (
	"context"
	"fmt"
	"sort"

	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// Built is a fully constructed reference graph plus the out-of-line payload
// table collected from its external initializers (including those of nested
// subgraphs).
type Built struct {
	Graph    *graph.Graph
	Payloads map[string]cty.Value
}

// Build constructs a complete, validated computation graph from a graph
// definition.
func Build(ctx context.Context, def *config.GraphDef) (*Built, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: Starting graph construction.", "graph", def.Name)

	payloads := make(map[string]cty.Value)
	g, err := buildGraph(def, payloads)
	if err != nil {
		return nil, err
	}

	if err := g.DetectCycles(); err != nil {
		return nil, fmt.Errorf("error validating graph %q: %w", def.Name, err)
	}
	logger.Debug("Build: Graph construction successful.", "graph", def.Name, "nodes", len(g.Nodes()))
	return &Built{Graph: g, Payloads: payloads}, nil
}

func buildGraph(def *config.GraphDef, payloads map[string]cty.Value) (*graph.Graph, error) {
	g := graph.New(def.Name)

	for _, in := range def.Inputs {
		t, err := graph.ParseDataType(in.Type)
		if err != nil {
			return nil, fmt.Errorf("graph %q: input %q: %w", def.Name, in.Name, err)
		}
		g.AddInput(&graph.Value{Name: in.Name, Type: t})
	}

	for _, init := range def.Initializers {
		t, err := graph.ParseDataType(init.Type)
		if err != nil {
			return nil, fmt.Errorf("graph %q: initializer %q: %w", def.Name, init.Name, err)
		}
		v := &graph.Value{Name: init.Name, Type: t, Const: true}
		if init.External {
			v.External = true
			payloads[init.Name] = *init.Value
		} else if init.Value != nil {
			v.Inline = init.Value
		}
		g.AddInitializer(v)
	}

	for _, nd := range def.Nodes {
		if err := buildNode(g, nd, payloads); err != nil {
			return nil, fmt.Errorf("graph %q: %w", def.Name, err)
		}
	}

	for _, name := range def.Outputs {
		v, ok := g.ValueByName(name)
		if !ok {
			return nil, fmt.Errorf("graph %q: output %q is not produced or declared", def.Name, name)
		}
		g.MarkOutput(v)
	}
	return g, nil
}

func buildNode(g *graph.Graph, nd *config.NodeDef, payloads map[string]cty.Value) error {
	inputs := make([]*graph.Value, 0, len(nd.Inputs))
	for _, name := range nd.Inputs {
		// Names not yet known to this scope are registered as placeholders;
		// they either resolve to a later node's output or to an enclosing
		// scope during resolution.
		inputs = append(inputs, g.GetOrCreateValue(name, graph.TypeUnknown))
	}

	outType, err := nodeOutputType(nd, inputs)
	if err != nil {
		return fmt.Errorf("node %q: %w", nd.Name, err)
	}
	outputs := make([]*graph.Value, 0, len(nd.Outputs))
	for _, name := range nd.Outputs {
		v := g.GetOrCreateValue(name, outType)
		if v.Type == graph.TypeUnknown {
			v.Type = outType
		}
		outputs = append(outputs, v)
	}

	node, err := g.AddNode(nd.Name, nd.Op, inputs, outputs)
	if err != nil {
		return err
	}

	attrs := make([]string, 0, len(nd.Subgraphs))
	for attr := range nd.Subgraphs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)
	for _, attr := range attrs {
		sub, err := buildGraph(nd.Subgraphs[attr], payloads)
		if err != nil {
			return err
		}
		node.AttachSubgraph(attr, sub)
	}
	if len(attrs) > 0 {
		declareImplicitInputs(node)
	}
	return nil
}

// nodeOutputType picks the element type of a node's outputs: an explicit
// type wins, otherwise the first input with a known type, otherwise float32.
func nodeOutputType(nd *config.NodeDef, inputs []*graph.Value) (graph.DataType, error) {
	if nd.Type != "" {
		return graph.ParseDataType(nd.Type)
	}
	for _, in := range inputs {
		if in.Type != graph.TypeUnknown {
			return in.Type, nil
		}
	}
	return graph.TypeFloat32, nil
}

// declareImplicitInputs records on a control-flow node every value its
// subgraphs consume without binding locally. Names that resolve in the
// node's own graph get that scope's descriptor; names that do not are
// declared with a placeholder so they keep bubbling up through enclosing
// control-flow nodes.
func declareImplicitInputs(node *graph.Node) {
	owner := node.Graph()
	for _, sub := range node.Subgraphs() {
		for _, name := range unboundNames(sub) {
			if v, ok := owner.ValueByName(name); ok {
				node.AddImplicitInput(v)
				continue
			}
			node.AddImplicitInput(&graph.Value{Name: name, Type: graph.TypeUnknown})
		}
	}
}

// unboundNames returns, in first-use order, every value name consumed
// inside the graph (node inputs plus the implicit inputs already bubbled up
// to its control-flow nodes) that the graph neither produces nor declares.
func unboundNames(g *graph.Graph) []string {
	bound := make(map[string]struct{})
	for _, n := range g.Nodes() {
		for _, out := range n.Outputs() {
			bound[out.Name] = struct{}{}
		}
	}
	for _, v := range g.InputsIncludingInitializers() {
		bound[v.Name] = struct{}{}
	}

	var unbound []string
	seen := make(map[string]struct{})
	record := func(name string) {
		if _, ok := bound[name]; ok {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		unbound = append(unbound, name)
	}
	for _, n := range g.Nodes() {
		for _, in := range n.Inputs() {
			record(in.Name)
		}
		for _, implicit := range n.ImplicitInputs() {
			record(implicit.Name)
		}
	}
	return unbound
}
