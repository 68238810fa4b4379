package hclconf

import (
	"fmt"

	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/schema"
)

// translateGraph converts the HCL-specific graph schema into the agnostic
// model.
func translateGraph(g *schema.Graph) (*config.GraphDef, error) {
	def := &config.GraphDef{
		Name:    g.Name,
		Outputs: g.Outputs,
	}
	for _, in := range g.Inputs {
		def.Inputs = append(def.Inputs, &config.ValueDef{Name: in.Name, Type: in.Type})
	}
	for _, init := range g.Initializers {
		translated, err := translateInitializer(g.Name, init)
		if err != nil {
			return nil, err
		}
		def.Initializers = append(def.Initializers, translated)
	}
	for _, n := range g.Nodes {
		translated, err := translateNode(g.Name, n)
		if err != nil {
			return nil, err
		}
		def.Nodes = append(def.Nodes, translated)
	}
	return def, nil
}

func translateInitializer(graphName string, init *schema.Initializer) (*config.InitializerDef, error) {
	def := &config.InitializerDef{
		Name: init.Name,
		Type: init.Type,
	}
	switch init.Storage {
	case "", "inline":
	case "external":
		def.External = true
	default:
		return nil, fmt.Errorf("graph %q: initializer %q: invalid storage %q (must be 'inline' or 'external')", graphName, init.Name, init.Storage)
	}
	if init.Value != nil {
		val, diags := init.Value.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("graph %q: initializer %q: invalid value: %w", graphName, init.Name, diags)
		}
		if !val.IsNull() {
			def.Value = &val
		}
	}
	if def.External && def.Value == nil {
		return nil, fmt.Errorf("graph %q: external initializer %q has no value payload", graphName, init.Name)
	}
	return def, nil
}

func translateNode(graphName string, n *schema.Node) (*config.NodeDef, error) {
	def := &config.NodeDef{
		Name:    n.Name,
		Op:      n.Op,
		Type:    n.Type,
		Inputs:  n.Inputs,
		Outputs: n.Outputs,
	}
	if len(n.Subgraphs) > 0 {
		def.Subgraphs = make(map[string]*config.GraphDef, len(n.Subgraphs))
		for _, sub := range n.Subgraphs {
			if _, dup := def.Subgraphs[sub.Attr]; dup {
				return nil, fmt.Errorf("graph %q: node %q: duplicate subgraph attribute %q", graphName, n.Name, sub.Attr)
			}
			subDef, err := translateGraph(&schema.Graph{
				// Subgraphs are named after their owning node and attribute
				// so graph identities stay unique within a model.
				Name:         fmt.Sprintf("%s_%s", n.Name, sub.Attr),
				Inputs:       sub.Inputs,
				Initializers: sub.Initializers,
				Nodes:        sub.Nodes,
				Outputs:      sub.Outputs,
			})
			if err != nil {
				return nil, err
			}
			def.Subgraphs[sub.Attr] = subDef
		}
	}
	return def, nil
}

// translatePartitioner converts the HCL partitioner settings block.
func translatePartitioner(p *schema.Partitioner) *config.PartitionerSettings {
	settings := &config.PartitionerSettings{Backend: p.Backend}
	if p.Auxiliary != nil {
		settings.AuxiliaryOp = p.Auxiliary.Op
		settings.AuxiliaryTypes = p.Auxiliary.Types
	}
	return settings
}
