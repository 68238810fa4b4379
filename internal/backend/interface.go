package backend

import (
	"context"

	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/selection"
)

// CompiledUnit is an opaque handle to a backend-compiled node subset.
type CompiledUnit interface {
	// Name identifies the compiled unit for logging and reporting.
	Name() string
	// NodeCount returns the number of graph nodes fused into the unit.
	NodeCount() int
}

// Backend compiles node subsets of a computation graph.
//
// ParseGraph has parser-rejection semantics: nodes the backend cannot accept
// are silently dropped from the proposed subset rather than failing it, so
// the returned subsets may cover strictly fewer nodes than proposed. An
// error is reserved for infrastructure failures, not rejection.
type Backend interface {
	Name() string
	ParseGraph(ctx context.Context, g *graph.Graph, proposed *selection.Subset) ([]*selection.Subset, error)
	Compile(ctx context.Context, g *graph.Graph, cap *selection.Capability) (CompiledUnit, error)
}
