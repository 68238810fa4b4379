package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tensorgridgo/internal/testutil"
)

func TestConfigErrors_DanglingValueReferenceFailsValidation(t *testing.T) {
	t.Parallel()

	// "ghost" is consumed by a node but produced nowhere and captured by no
	// control-flow node, so structural validation must reject the graph.
	files := map[string]string{
		"main.hcl": `
graph "main" {
  input "x" {
    type = "float32"
  }

  node "r" {
    op      = "Relu"
    inputs  = ["x", "ghost"]
    outputs = ["y"]
  }

  outputs = ["y"]
}
` + testutil.SettingsHCL("Relu"),
	}
	result := testutil.RunIntegrationTest(t, files)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "unresolvable value")
}

func TestConfigErrors_CyclicGraphIsRejected(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
graph "main" {
  node "a" {
    op      = "Add"
    inputs  = ["vb"]
    outputs = ["va"]
  }

  node "b" {
    op      = "Add"
    inputs  = ["va"]
    outputs = ["vb"]
  }

  outputs = ["va"]
}
` + testutil.SettingsHCL("Add"),
	}
	result := testutil.RunIntegrationTest(t, files)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "cycle detected")
}

func TestConfigErrors_UnknownBackendReference(t *testing.T) {
	t.Parallel()

	files := map[string]string{
		"main.hcl": `
graph "main" {
  input "x" {
    type = "float32"
  }
  node "r" {
    op      = "Relu"
    inputs  = ["x"]
    outputs = ["y"]
  }
  outputs = ["y"]
}

partitioner {
  backend = "warp-drive"
}
`,
	}
	result := testutil.RunIntegrationTest(t, files)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), `undefined backend "warp-drive"`)
}
