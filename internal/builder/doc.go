// Package builder constructs computation graphs from the format-agnostic
// config model. Building is a multi-pass process: declare inputs and
// initializers, create nodes (recursing into nested subgraph definitions),
// declare the implicit outer-scope inputs of control-flow nodes, mark graph
// outputs, and finally validate the result for cycles.
package builder
