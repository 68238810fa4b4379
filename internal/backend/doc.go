// Package backend defines the contracts of the external collaborators the
// partitioner drives: the accelerator backend that parses and compiles node
// subsets, and the inline materializer that embeds out-of-line constants
// into a graph. These are in-process contracts; no wire format is implied.
package backend
