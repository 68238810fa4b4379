package hclconf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_FullModel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "main.hcl", `
graph "main" {
  input "x" {
    type = "float32"
  }

  initializer "q" {
    type    = "int32"
    storage = "external"
    value   = 42
  }

  node "dq" {
    op      = "DequantizeLinear"
    inputs  = ["q"]
    outputs = ["dqo"]
  }

  node "if1" {
    op      = "If"
    inputs  = ["dqo"]
    outputs = ["out"]

    subgraph "then_branch" {
      node "inner" {
        op      = "Relu"
        inputs  = ["x"]
        outputs = ["res"]
      }
      outputs = ["res"]
    }
  }

  outputs = ["out"]
}

partitioner {
  backend = "emulator"

  auxiliary {
    op    = "DequantizeLinear"
    types = ["int32", "int16"]
  }
}

backend "emulator" {
  supported_ops = ["Relu", "MatMul"]
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, model.Graphs, 1)
	g := model.Graphs[0]
	assert.Equal(t, "main", g.Name)
	require.Len(t, g.Initializers, 1)
	assert.True(t, g.Initializers[0].External)
	require.NotNil(t, g.Initializers[0].Value)

	require.Len(t, g.Nodes, 2)
	ifNode := g.Nodes[1]
	require.Contains(t, ifNode.Subgraphs, "then_branch")
	assert.Equal(t, "if1_then_branch", ifNode.Subgraphs["then_branch"].Name,
		"subgraph names derive from the owning node and attribute")

	require.NotNil(t, model.Partitioner)
	assert.Equal(t, "emulator", model.Partitioner.Backend)
	assert.Equal(t, "DequantizeLinear", model.Partitioner.AuxiliaryOp)
	assert.Equal(t, []string{"int32", "int16"}, model.Partitioner.AuxiliaryTypes)

	require.Contains(t, model.Backends, "emulator")
	assert.Equal(t, []string{"Relu", "MatMul"}, model.Backends["emulator"].SupportedOps)
}

func TestLoad_MergesAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFixture(t, dir, "graphs.hcl", `
graph "a" {
  node "r" {
    op      = "Relu"
    inputs  = ["x"]
    outputs = ["y"]
  }
  outputs = ["y"]
}
`)
	writeFixture(t, dir, "settings.hcl", `
partitioner {
  backend = "emulator"
}

backend "emulator" {
  supported_ops = ["Relu"]
}
`)

	model, err := NewLoader().Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, model.Graphs, 1)
	assert.NotNil(t, model.Partitioner)
	assert.Contains(t, model.Backends, "emulator")
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("duplicate partitioner block", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		writeFixture(t, dir, "a.hcl", `
partitioner {
  backend = "emulator"
}
`)
		writeFixture(t, dir, "b.hcl", `
partitioner {
  backend = "other"
}
`)
		_, err := NewLoader().Load(context.Background(), dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate partitioner block")
	})

	t.Run("invalid storage", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFixture(t, dir, "main.hcl", `
graph "main" {
  initializer "q" {
    type    = "int32"
    storage = "punched-cards"
  }
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid storage")
	})

	t.Run("external initializer without payload", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFixture(t, dir, "main.hcl", `
graph "main" {
  initializer "q" {
    type    = "int32"
    storage = "external"
  }
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no value payload")
	})

	t.Run("malformed HCL", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFixture(t, dir, "main.hcl", `graph "broken" {`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})

	t.Run("duplicate subgraph attribute", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		path := writeFixture(t, dir, "main.hcl", `
graph "main" {
  node "if1" {
    op      = "If"
    outputs = ["out"]

    subgraph "then" {
      outputs = []
    }
    subgraph "then" {
      outputs = []
    }
  }
  outputs = ["out"]
}
`)
		_, err := NewLoader().Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate subgraph attribute")
	})
}

func TestLoad_MissingPathIsNotAnError(t *testing.T) {
	t.Parallel()

	model, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, model.Graphs)
}
