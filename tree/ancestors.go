package tree

// Ancestor is one step of an ancestor chain: Parent holds the chain's next
// deeper element at Children()[Index].
type Ancestor struct {
	Parent *Node
	Index  int
}

// Ancestors is an ancestor chain ordered deepest first: the first entry is
// the direct parent of the target and the last entry has the root as
// Parent.
type Ancestors []Ancestor

// Target returns the node the chain leads to, or nil for an empty chain.
func (as Ancestors) Target() *Node {
	if len(as) == 0 {
		return nil
	}
	a := as[0]
	return a.Parent.children[a.Index]
}

// AncestorsOf computes the ancestor chain of family f within root. The
// result is empty if f is not reachable from root, including when root
// itself is of family f. Matching is pre-order, so if several nodes share
// a family the first one wins.
func AncestorsOf(root *Node, f Family) Ancestors {
	var path Ancestors
	if !findPath(root, f, &path) {
		return nil
	}
	// path is root first
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func findPath(n *Node, f Family, path *Ancestors) bool {
	for i, c := range n.children {
		*path = append(*path, Ancestor{Parent: n, Index: i})
		if c.family == f || findPath(c, f, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
	}
	return false
}
