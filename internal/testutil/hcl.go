package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vk/tensorgridgo/backends/emulator"
	"github.com/vk/tensorgridgo/internal/backend"
	"github.com/vk/tensorgridgo/internal/builder"
	"github.com/vk/tensorgridgo/internal/hclconf"
	"github.com/vk/tensorgridgo/internal/partition"
	"github.com/vk/tensorgridgo/internal/selection"
	"github.com/stretchr/testify/require"
)

// SettingsHCL renders a partitioner block plus an emulator backend accepting
// the given op tags. Tests append it to their graph fixture so a single
// string describes a complete configuration.
func SettingsHCL(supportedOps ...string) string {
	quoted := make([]string, len(supportedOps))
	for i, op := range supportedOps {
		quoted[i] = fmt.Sprintf("%q", op)
	}
	return fmt.Sprintf(`
partitioner {
  backend = "emulator"
}

backend "emulator" {
  supported_ops = [%s]
}
`, strings.Join(quoted, ", "))
}

// RunHCLGraphTest provides a simplified harness for running a single graph
// HCL string through the full app with an emulator backend that supports the
// given ops.
func RunHCLGraphTest(t *testing.T, graphHCL string, supportedOps ...string) *HarnessResult {
	t.Helper()
	files := map[string]string{
		"main.hcl":     graphHCL,
		"settings.hcl": SettingsHCL(supportedOps...),
	}
	return RunIntegrationTest(t, files)
}

// PartitionHCL loads a graph definition from HCL and runs one partitioning
// attempt against an emulator backend, returning the structured result for
// assertions that the textual report cannot support.
func PartitionHCL(t *testing.T, graphHCL string, supportedOps ...string) *partition.Result {
	t.Helper()
	ctx := context.Background()

	tmpDir := t.TempDir()
	full := graphHCL + SettingsHCL(supportedOps...)
	path := filepath.Join(tmpDir, "main.hcl")
	require.NoError(t, os.WriteFile(path, []byte(full), 0644))

	model, err := hclconf.NewLoader().Load(ctx, path)
	require.NoError(t, err, "fixture HCL must load")
	require.Len(t, model.Graphs, 1, "fixture must declare exactly one graph")

	built, err := builder.Build(ctx, model.Graphs[0])
	require.NoError(t, err, "fixture graph must build")

	be := emulator.New(model.Backends["emulator"])
	mat := backend.NewInlineMaterializer(built.Payloads)
	p := partition.New(be, mat, nil, selection.DefaultPredicate())

	res, err := p.Partition(ctx, built.Graph)
	require.NoError(t, err, "partitioning must succeed")
	return res
}
