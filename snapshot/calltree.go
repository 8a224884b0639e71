package snapshot

// CallNode is one node of the derived call tree: a frame plus its direct
// children, in call order (SPEC_FULL.md §12, supplementing the trace-only
// view with the explicit tree original_source/ exposes to callers).
type CallNode struct {
	Frame    frameView
	Children []*CallNode
}

// CallTree builds the call tree from a Collector's frame table. frames[0]
// is always the root.
func CallTree(frames []frameView) *CallNode {
	if len(frames) == 0 {
		return nil
	}
	nodes := make([]*CallNode, len(frames))
	for i, f := range frames {
		nodes[i] = &CallNode{Frame: f}
	}
	for i, f := range frames {
		if f.Parent < 0 {
			continue
		}
		nodes[f.Parent].Children = append(nodes[f.Parent].Children, nodes[i])
	}
	return nodes[0]
}
