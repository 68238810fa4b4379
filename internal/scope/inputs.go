package scope

import (
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/vk/tensorgridgo/internal/graphid"
)

// FinalizeInputs rewrites the graph's declared input list to include the
// inputs promoted during outer-scope resolution. When no inputs were
// promoted this is a no-op and the default input inference performed by
// graph validation is sufficient.
//
// The final list is built by concatenation with name deduplication, in a
// fixed precedence order: the context's recorded inputs and initializers,
// then the promoted inputs, then anything the graph already declares. The
// ordering is a determinism choice so repeated runs produce identical
// downstream artifacts.
func (s *Store) FinalizeInputs(g *graph.Graph) {
	sc, ok := s.contexts[graphid.Identify(g)]
	if !ok || sc.ManualInputCount() == 0 {
		return
	}

	var final []*graph.Value
	seen := make(map[string]struct{})
	appendUnique := func(values []*graph.Value) {
		for _, v := range values {
			if _, dup := seen[v.Name]; dup {
				continue
			}
			final = append(final, v)
			seen[v.Name] = struct{}{}
		}
	}

	appendUnique(sc.OrderedInputs())
	appendUnique(sc.OrderedManualInputs())
	appendUnique(g.InputsIncludingInitializers())

	g.SetInputs(final)
}
