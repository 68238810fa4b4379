package integrationtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tensorgridgo/internal/testutil"
)

func TestOuterScope_CapturePromotedToTopLevelInput(t *testing.T) {
	t.Parallel()

	// Both branches consume "scale", which no enclosing scope binds. The
	// partitioner must synthesize a top-level input so the graph validates.
	graphHCL := `
graph "main" {
  input "cond" {
    type = "bool"
  }

  node "if1" {
    op      = "If"
    inputs  = ["cond"]
    outputs = ["out"]

    subgraph "then_branch" {
      node "scaled" {
        op      = "Mul"
        inputs  = ["scale"]
        outputs = ["res"]
      }
      outputs = ["res"]
    }

    subgraph "else_branch" {
      node "passthrough" {
        op      = "Relu"
        inputs  = ["scale"]
        outputs = ["res"]
      }
      outputs = ["res"]
    }
  }

  outputs = ["out"]
}
`
	res := testutil.PartitionHCL(t, graphHCL, "If", "Mul", "Relu")

	names := make([]string, 0, len(res.Graph.Inputs()))
	for _, v := range res.Graph.Inputs() {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "scale", "the capture becomes a synthetic top-level input")

	count := 0
	for _, n := range names {
		if n == "scale" {
			count++
		}
	}
	assert.Equal(t, 1, count, "two sibling branches share one promoted input")
}

func TestOuterScope_ValueFromEnclosingGraphIsNotPromoted(t *testing.T) {
	t.Parallel()

	// The branch consumes "a", which the top-level graph produces. No
	// synthetic input may appear.
	graphHCL := `
graph "main" {
  input "x" {
    type = "float32"
  }

  node "relu1" {
    op      = "Relu"
    inputs  = ["x"]
    outputs = ["a"]
  }

  node "if1" {
    op      = "If"
    inputs  = ["a"]
    outputs = ["out"]

    subgraph "then_branch" {
      node "use" {
        op      = "Mul"
        inputs  = ["a"]
        outputs = ["res"]
      }
      outputs = ["res"]
    }
  }

  outputs = ["out"]
}
`
	res := testutil.PartitionHCL(t, graphHCL, "If", "Mul", "Relu")

	require.Len(t, res.Graph.Inputs(), 1, "no promotion for a value resolvable in an enclosing scope")
	assert.Equal(t, "x", res.Graph.Inputs()[0].Name)
}
