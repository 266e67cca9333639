package tree

import (
	"fmt"
	"maps"
	"slices"
	"sync/atomic"
)

// Family identifies "the same" logical element across tree versions.
type Family uint64

func (f Family) String() string {
	return fmt.Sprintf("#%d", uint64(f))
}

// Props is a node's property set. Values are JSON compatible.
//
// A Props value reachable from a Node is never modified; merges produce a
// new map.
type Props map[string]any

// Clone returns a shallow copy of p.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Keys returns the keys of p in sorted order.
func (p Props) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Node is an element of a render tree version.
//
// A Node is created unsealed. While unsealed it belongs to exactly one tree
// version under construction and its child list may be edited in place with
// ReplaceChild. Once sealed, by the commit pipeline at publish time, it is
// immutable and may be shared by reference between versions.
type Node struct {
	family   Family
	typ      string
	props    Props
	children []*Node
	sealed   atomic.Bool
}

// New creates an unsealed node.
func New(family Family, typ string, props Props, children ...*Node) *Node {
	return &Node{
		family:   family,
		typ:      typ,
		props:    props,
		children: children,
	}
}

// Fragment describes what a clone replaces. Nil fields keep the source's
// value.
type Fragment struct {
	Props    Props
	Children []*Node
}

func (n *Node) Family() Family {
	return n.family
}

// Type is the declared node type, used to select a property merger.
func (n *Node) Type() string {
	return n.typ
}

// Props returns the node's properties. The result must not be modified.
func (n *Node) Props() Props {
	return n.props
}

// Prop returns a single property value.
func (n *Node) Prop(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// Children returns the node's children. The result must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

func (n *Node) Child(i int) *Node {
	return n.children[i]
}

func (n *Node) Sealed() bool {
	return n.sealed.Load()
}

// Seal makes n and everything below it immutable. Sealing an already
// sealed subtree stops there: children of a sealed node are sealed.
func (n *Node) Seal() {
	if n.sealed.Swap(true) {
		return
	}
	for _, c := range n.children {
		c.Seal()
	}
}

// Clone returns a new unsealed node with the same family and type,
// replacing what frag names. The child list is always copied so that the
// clone may be edited in place without touching n.
func (n *Node) Clone(frag Fragment) *Node {
	res := &Node{
		family:   n.family,
		typ:      n.typ,
		props:    n.props,
		children: n.children,
	}
	if frag.Props != nil {
		res.props = frag.Props
	}
	if frag.Children != nil {
		res.children = frag.Children
	}
	res.children = slices.Clone(res.children)
	return res
}

// ReplaceChild replaces the child at index with child. It panics if n is
// sealed.
func (n *Node) ReplaceChild(index int, child *Node) {
	if n.Sealed() {
		panic(fmt.Sprintf("tree: ReplaceChild on sealed node %s", n.family))
	}
	n.children[index] = child
}

// SameFamily reports whether a and b are versions of the same element.
func SameFamily(a, b *Node) bool {
	return a.family == b.family
}

// Visit walks the tree in depth first order calling f before (isPost false)
// and after (isPost true) the children of each node. Children are visited
// only if the pre-order call returns true.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, c := range n.children {
			if err := c.Visit(f); err != nil {
				return err
			}
		}
	}
	if _, err := f(n, true); err != nil {
		return err
	}
	return nil
}

// Find returns the first node of the given family in pre-order, or nil.
func (n *Node) Find(f Family) *Node {
	if n.family == f {
		return n
	}
	for _, c := range n.children {
		if res := c.Find(f); res != nil {
			return res
		}
	}
	return nil
}
