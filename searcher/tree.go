package searcher

// TreeNode is one expanded position in a search, kept only when tree
// capture is enabled. The root has Column -1; every other node is the
// move that produced it. Branches cut off by pruning simply have fewer
// children than legal moves, and the parent is marked Pruned.
type TreeNode struct {
	Column     int         `json:"column"`
	Score      float64     `json:"score"`
	Maximizing bool        `json:"maximizing"`
	Pruned     bool        `json:"pruned,omitempty"`
	Children   []*TreeNode `json:"children,omitempty"`
}

// addChild appends and returns a child node. Nil-safe so the search can
// thread a nil tree through when capture is off.
func (n *TreeNode) addChild(column int, maximizing bool) *TreeNode {
	if n == nil {
		return nil
	}
	child := &TreeNode{Column: column, Maximizing: maximizing}
	n.Children = append(n.Children, child)
	return child
}
