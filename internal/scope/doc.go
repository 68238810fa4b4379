// Package scope tracks which values each graph in a nested graph tree
// produces, consumes and captures from enclosing scopes.
//
// A Store holds one Context per graph identity for the duration of a single
// partitioning attempt. Contexts are built bottom-up (innermost subgraphs
// first) and consulted by the outer-scope resolver and the input finalizer.
// A Store must not be shared between concurrent partitioning attempts; each
// attempt gets its own instance and a failed attempt's store is discarded
// wholesale.
package scope
