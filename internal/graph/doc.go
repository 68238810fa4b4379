// Package graph defines the computation graph data model: graphs of
// operation nodes connected by named values, with support for nested
// subgraphs owned by control-flow nodes.
//
// Node storage is a sparse arena: removing a node leaves a tombstone and
// indices are never reused within a graph's lifetime. All iteration skips
// tombstones.
//
// Parent/child relationships between a subgraph and its enclosing graph form
// a tree. The upward links (ParentNode, ParentGraph) are non-owning and are
// only used for ancestor walks during scope resolution.
package graph
