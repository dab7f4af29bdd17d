package ldraw

// WalkFunc is called for every node with its depth below the root. It
// returns false to skip the node's children.
type WalkFunc func(n Node, depth int) bool

// Walk visits the nodes depth-first in emission order.
func (b *Builder) Walk(fn WalkFunc) {
	walk(b.children, 0, fn)
}

// Walk visits n and its descendants depth-first.
func Walk(n Node, fn WalkFunc) {
	walk([]Node{n}, 0, fn)
}

func walk(nodes []Node, depth int, fn WalkFunc) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children(), depth+1, fn)
		}
	}
}

// Count returns the number of nodes in the scene.
func (b *Builder) Count() int {
	n := 0
	b.Walk(func(Node, int) bool {
		n++
		return true
	})
	return n
}
