// Package emulator provides a reference accelerator backend used for local
// runs and tests. It accepts nodes whose op tag appears in its configured
// supported-op set, splitting a proposed node list into maximal contiguous
// supported runs the way a real parser silently drops unsupported nodes.
package emulator

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/cpuinfo"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/registry"
	"github.com/vk/tensorgridgo/internal/selection"
)

// BackendType is the registry key for this backend.
const BackendType = "emulator"

// Backend emulates an accelerator compiler parser over a supported-op set.
type Backend struct {
	supported map[string]struct{}
	features  cpuinfo.Features
}

// New creates an emulator backend from its configuration definition.
func New(def *config.BackendDefinition) *Backend {
	supported := make(map[string]struct{}, len(def.SupportedOps))
	for _, op := range def.SupportedOps {
		supported[op] = struct{}{}
	}
	return &Backend{
		supported: supported,
		features:  cpuinfo.Probe(),
	}
}

// Name returns the backend type name.
func (b *Backend) Name() string { return BackendType }

// ParseGraph walks the proposed positions in order and returns the maximal
// contiguous runs of nodes the emulator can accept. Unsupported nodes are
// dropped silently; they split runs but never fail the parse.
func (b *Backend) ParseGraph(ctx context.Context, g *graph.Graph, proposed *selection.Subset) ([]*selection.Subset, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Emulator parsing proposed nodes.",
		"graph", g.Name(),
		"proposed", proposed.Len(),
		"core", cpuinfo.CurrentCore(),
	)

	topo := g.TopologicalOrder()
	var subsets []*selection.Subset
	var run []int
	closeRun := func() {
		if len(run) > 0 {
			subsets = append(subsets, &selection.Subset{Positions: run, Supported: true})
			run = nil
		}
	}

	dropped := 0
	for _, pos := range proposed.Positions {
		if pos < 0 || pos >= len(topo) {
			closeRun()
			continue
		}
		n := g.NodeAt(topo[pos])
		if n == nil || !b.accepts(n) {
			dropped++
			closeRun()
			continue
		}
		run = append(run, pos)
	}
	closeRun()

	logger.Debug("Emulator parse complete.", "graph", g.Name(), "subsets", len(subsets), "dropped", dropped)
	return subsets, nil
}

// accepts reports whether the emulator can compile the node. Nodes touching
// float16 values require the host to support half-precision conversion.
func (b *Backend) accepts(n *graph.Node) bool {
	if _, ok := b.supported[n.Op()]; !ok {
		return false
	}
	if usesFloat16(n) && !b.features.F16C {
		return false
	}
	return true
}

func usesFloat16(n *graph.Node) bool {
	for _, v := range n.Inputs() {
		if v.Type == graph.TypeFloat16 {
			return true
		}
	}
	for _, v := range n.Outputs() {
		if v.Type == graph.TypeFloat16 {
			return true
		}
	}
	return false
}

// compiledUnit is the emulator's trivial compiled artifact.
type compiledUnit struct {
	name  string
	nodes int
}

func (u *compiledUnit) Name() string   { return u.name }
func (u *compiledUnit) NodeCount() int { return u.nodes }

// Compile packages an accepted capability into a compiled unit. Indices
// pointing at removed or unknown nodes violate the capability contract and
// fail compilation.
func (b *Backend) Compile(ctx context.Context, g *graph.Graph, accepted *selection.Capability) (backend.CompiledUnit, error) {
	for _, index := range accepted.Nodes {
		if g.NodeAt(index) == nil {
			return nil, fmt.Errorf("capability references missing node index %d in graph %q", index, g.Name())
		}
	}
	unit := &compiledUnit{
		name:  fmt.Sprintf("%s_unit_%d", g.Name(), len(accepted.Nodes)),
		nodes: len(accepted.Nodes),
	}
	ctxlog.FromContext(ctx).Debug("Emulator compiled unit.", "unit", unit.name, "nodes", unit.nodes)
	return unit, nil
}

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the emulator backend factory.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBackend(BackendType, func(def *config.BackendDefinition) (backend.Backend, error) {
		return New(def), nil
	})
}
