package backend

import (
	"context"
	"fmt"

	"github.com/vk/tensorgridgo/internal/ctxlog"
	"github.com/vk/tensorgridgo/internal/graph"
	"github.com/zclconf/go-cty/cty"
)

// InlineMaterializer embeds out-of-line constant payloads into graph value
// descriptors. Payloads are registered up front, when the graph definition
// is loaded; materialization of a value with no registered payload is a
// fatal error since the resulting graph could never be compiled.
type InlineMaterializer struct {
	payloads map[string]cty.Value
}

// NewInlineMaterializer creates a materializer over the given payload table.
func NewInlineMaterializer(payloads map[string]cty.Value) *InlineMaterializer {
	if payloads == nil {
		payloads = make(map[string]cty.Value)
	}
	return &InlineMaterializer{payloads: payloads}
}

// AddPayload registers the out-of-line payload for a named constant.
func (m *InlineMaterializer) AddPayload(name string, v cty.Value) {
	m.payloads[name] = v
}

// MaterializeInline embeds the payload of the named value directly into its
// descriptor and clears the external-storage flag. Values that are not
// externally stored, or not known to the graph, are left untouched.
func (m *InlineMaterializer) MaterializeInline(ctx context.Context, g *graph.Graph, name string) error {
	v, ok := g.ValueByName(name)
	if !ok || !v.External {
		return nil
	}
	payload, ok := m.payloads[name]
	if !ok {
		return fmt.Errorf("no payload registered for externally-stored constant %q", name)
	}
	v.Inline = &payload
	v.External = false
	ctxlog.FromContext(ctx).Debug("Materialized external constant inline.", "value", name, "graph", g.Name())
	return nil
}
