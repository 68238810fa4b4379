package selection

// Reconcile limits an optimization capability to the nodes that all three
// selections agree on: the original optimizer selection, the auxiliary node
// set, and the backend's accepted capability. The optimization behavior is
// copied from the original selection unchanged.
func Reconcile(selectionCap *Capability, auxiliary map[int]struct{}, backendCap *Capability) *Capability {
	selected := selectionCap.NodeSet()

	var nodes []int
	for _, index := range backendCap.Nodes {
		if _, ok := selected[index]; !ok {
			continue
		}
		if _, ok := auxiliary[index]; !ok {
			continue
		}
		nodes = append(nodes, index)
	}
	return &Capability{
		Nodes:    nodes,
		Optimize: selectionCap.Optimize,
	}
}
