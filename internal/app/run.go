package app

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/builder"
	"github.com/vk/tensorgridgo/internal/config"
	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/partition"
	"github.com/vk/tensorgridgo/internal/selection"
)

// Run executes one partitioning pass over every configured top-level graph
// and writes a per-graph report to the application's output writer.
//
// Top-level graphs are independent, so their attempts run concurrently, each
// with its own scope store and materializer. The report is emitted after all
// attempts finish, in configuration order, so output stays deterministic.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	settings := a.config.Partitioner
	if settings == nil {
		return fmt.Errorf("configuration declares no partitioner block")
	}
	be, err := a.registry.NewBackend(a.config.Backends[settings.Backend])
	if err != nil {
		return fmt.Errorf("creating backend %q: %w", settings.Backend, err)
	}
	pred, err := auxiliaryPredicate(settings)
	if err != nil {
		return fmt.Errorf("configuring auxiliary predicate: %w", err)
	}

	// Build every reference graph up front so definition errors surface
	// before any partitioning work starts.
	builds := make([]*builder.Built, len(a.config.Graphs))
	for i, def := range a.config.Graphs {
		builds[i], err = builder.Build(ctx, def)
		if err != nil {
			return fmt.Errorf("building graph %q: %w", def.Name, err)
		}
	}

	a.logger.Info("Starting partitioning.", "graphs", len(builds), "backend", be.Name())

	reports := make([]string, len(builds))
	grp, gctx := errgroup.WithContext(ctx)
	for i, built := range builds {
		grp.Go(func() error {
			mat := backend.NewInlineMaterializer(built.Payloads)
			p := partition.New(be, mat, nil, pred)
			res, err := p.Partition(gctx, built.Graph)
			if err != nil {
				return err
			}
			reports[i] = formatReport(res)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return fmt.Errorf("partitioning failed: %w", err)
	}

	for _, r := range reports {
		fmt.Fprint(a.outW, r)
	}
	a.logger.Info("Partitioning finished.", "graphs", len(builds))
	return nil
}

// auxiliaryPredicate builds the auxiliary node predicate from the
// partitioner settings, falling back to the default pattern for any field
// the configuration leaves unset.
func auxiliaryPredicate(settings *config.PartitionerSettings) (selection.Predicate, error) {
	pred := selection.DefaultPredicate()
	if settings.AuxiliaryOp != "" {
		pred.Op = settings.AuxiliaryOp
	}
	if len(settings.AuxiliaryTypes) > 0 {
		types := make([]graph.DataType, 0, len(settings.AuxiliaryTypes))
		for _, name := range settings.AuxiliaryTypes {
			t, err := graph.ParseDataType(name)
			if err != nil {
				return selection.Predicate{}, err
			}
			types = append(types, t)
		}
		pred.Types = types
	}
	return pred, nil
}

// formatReport renders one partitioning result as human-readable lines. Node
// indices are printed sorted so the report is stable across runs.
func formatReport(res *partition.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "graph %q: %d capabilities, %d optimizations, %d auxiliary nodes\n",
		res.Graph.Name(), len(res.Capabilities), len(res.Optimizations), len(res.AuxiliarySelected))
	for i, c := range res.Capabilities {
		fmt.Fprintf(&b, "  capability %d: nodes %v\n", i, sortedCopy(c.Nodes))
	}
	for i, opt := range res.Optimizations {
		fmt.Fprintf(&b, "  optimization %d: nodes %v\n", i, sortedCopy(opt.Nodes))
	}
	return b.String()
}

func sortedCopy(nodes []int) []int {
	out := make([]int, len(nodes))
	copy(out, nodes)
	sort.Ints(out)
	return out
}
