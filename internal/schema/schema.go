package schema

import "github.com/hashicorp/hcl/v2"

// --- Graph Definition Structures ---

// Input declares a graph input value.
type Input struct {
	Name string `hcl:"name,label"`
	Type string `hcl:"type"`
}

// Initializer declares a constant value. Storage may be "inline" (default)
// or "external"; external constants must be materialized inline before the
// graph can be compiled.
type Initializer struct {
	Name    string         `hcl:"name,label"`
	Type    string         `hcl:"type"`
	Storage string         `hcl:"storage,optional"`
	Value   hcl.Expression `hcl:"value,optional"`
}

// Subgraph is a nested graph owned by a control-flow node, stored under an
// attribute name.
type Subgraph struct {
	Attr         string         `hcl:"attr,label"`
	Inputs       []*Input       `hcl:"input,block"`
	Initializers []*Initializer `hcl:"initializer,block"`
	Nodes        []*Node        `hcl:"node,block"`
	Outputs      []string       `hcl:"outputs,optional"`
}

// Node represents a `node` block: one operation in a graph.
type Node struct {
	Name      string      `hcl:"name,label"`
	Op        string      `hcl:"op"`
	Type      string      `hcl:"type,optional"`
	Inputs    []string    `hcl:"inputs,optional"`
	Outputs   []string    `hcl:"outputs"`
	Subgraphs []*Subgraph `hcl:"subgraph,block"`
}

// Graph represents a top-level `graph` block.
type Graph struct {
	Name         string         `hcl:"name,label"`
	Inputs       []*Input       `hcl:"input,block"`
	Initializers []*Initializer `hcl:"initializer,block"`
	Nodes        []*Node        `hcl:"node,block"`
	Outputs      []string       `hcl:"outputs,optional"`
}

// --- Partitioner Settings Structures ---

// Auxiliary configures the auxiliary node pattern the partitioner selects
// for constant-folding optimization.
type Auxiliary struct {
	Op    string   `hcl:"op"`
	Types []string `hcl:"types"`
}

// Partitioner represents the `partitioner` block.
type Partitioner struct {
	Backend   string     `hcl:"backend"`
	Auxiliary *Auxiliary `hcl:"auxiliary,block"`
}

// Backend represents a `backend` block configuring one backend type.
type Backend struct {
	Type         string   `hcl:"type,label"`
	SupportedOps []string `hcl:"supported_ops"`
}
