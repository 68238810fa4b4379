package config

import "github.com/zclconf/go-cty/cty"

// Model is the unified representation of the loaded configuration.
type Model struct {
	Graphs      []*GraphDef
	Partitioner *PartitionerSettings
	Backends    map[string]*BackendDefinition
}

// GraphDef describes one computation graph (or nested subgraph).
type GraphDef struct {
	Name         string
	Inputs       []*ValueDef
	Initializers []*InitializerDef
	Nodes        []*NodeDef
	Outputs      []string
}

// ValueDef declares a graph input.
type ValueDef struct {
	Name string
	Type string
}

// InitializerDef declares a constant. External initializers carry their
// payload out-of-line and must be materialized inline before compilation.
type InitializerDef struct {
	Name     string
	Type     string
	External bool
	Value    *cty.Value
}

// NodeDef describes one operation node. Subgraphs maps control-flow
// attribute names to nested graph definitions.
type NodeDef struct {
	Name      string
	Op        string
	Type      string
	Inputs    []string
	Outputs   []string
	Subgraphs map[string]*GraphDef
}

// PartitionerSettings selects the backend and configures the auxiliary node
// pattern.
type PartitionerSettings struct {
	Backend        string
	AuxiliaryOp    string
	AuxiliaryTypes []string
}

// BackendDefinition configures one backend instance, keyed by backend type.
type BackendDefinition struct {
	Type         string
	SupportedOps []string
}
