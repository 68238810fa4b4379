package scope

import "github.com/vk/tensorgridgo/internal/graph"

// Context is the per-graph scope record: which value names the graph's
// nodes produce, which values the graph consumes without producing them
// (its effective inputs and initializers), and which outer-scope values
// were promoted to synthetic top-level inputs on the graph's behalf.
type Context struct {
	outputArgs map[string]struct{}

	inputs     map[string]*graph.Value
	inputOrder []string

	manual      map[string]*graph.Value
	manualOrder []string
}

// NewContext returns an empty scope context.
func NewContext() *Context {
	return &Context{
		outputArgs: make(map[string]struct{}),
		inputs:     make(map[string]*graph.Value),
		manual:     make(map[string]*graph.Value),
	}
}

// RecordOutput marks a value name as produced by a node in this graph.
func (c *Context) RecordOutput(name string) {
	c.outputArgs[name] = struct{}{}
}

// HasOutput reports whether a node in this graph produces the named value.
func (c *Context) HasOutput(name string) bool {
	_, ok := c.outputArgs[name]
	return ok
}

// RecordInput binds a consumed-but-not-produced value to its descriptor.
// The first binding for a name wins.
func (c *Context) RecordInput(v *graph.Value) {
	if _, ok := c.inputs[v.Name]; ok {
		return
	}
	c.inputs[v.Name] = v
	c.inputOrder = append(c.inputOrder, v.Name)
}

// HasInput reports whether the named value is an effective input or
// initializer of this graph.
func (c *Context) HasInput(name string) bool {
	_, ok := c.inputs[name]
	return ok
}

// OrderedInputs returns the effective inputs in insertion order.
func (c *Context) OrderedInputs() []*graph.Value {
	out := make([]*graph.Value, 0, len(c.inputOrder))
	for _, name := range c.inputOrder {
		out = append(out, c.inputs[name])
	}
	return out
}

// RecordManualInput records a synthetic top-level input promoted during
// outer-scope resolution, keyed by its final name.
func (c *Context) RecordManualInput(v *graph.Value) {
	if _, ok := c.manual[v.Name]; ok {
		return
	}
	c.manual[v.Name] = v
	c.manualOrder = append(c.manualOrder, v.Name)
}

// HasManualInput reports whether the named value was already promoted.
func (c *Context) HasManualInput(name string) bool {
	_, ok := c.manual[name]
	return ok
}

// ManualInputCount returns the number of promoted inputs.
func (c *Context) ManualInputCount() int { return len(c.manual) }

// OrderedManualInputs returns the promoted inputs in insertion order.
func (c *Context) OrderedManualInputs() []*graph.Value {
	out := make([]*graph.Value, 0, len(c.manualOrder))
	for _, name := range c.manualOrder {
		out = append(out, c.manual[name])
	}
	return out
}
