// Package partition orchestrates one partitioning attempt over one
// top-level computation graph: it clones the reference graph, builds the
// scope contexts, resolves outer-scope captures, finalizes inputs,
// validates the result, selects auxiliary nodes, lets the backend parser
// pick the node subsets it can compile, and re-admits parser-filtered
// auxiliary nodes.
//
// An attempt runs to completion on a single goroutine and owns its scope
// store. Hosts partitioning several independent top-level graphs in
// parallel must run one attempt per graph, each with its own Partitioner
// call; a failed attempt leaves no reusable state behind.
package partition
