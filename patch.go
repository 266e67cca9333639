package treepatch

import (
	"fmt"

	"github.com/signadot/treepatch/debug"
	"github.com/signadot/treepatch/tree"
)

// Result describes what Apply did with the root.
type Result int

const (
	// NotFound means the target is not reachable from the root; the root
	// is returned untouched.
	NotFound Result = iota

	// Unchanged means an unsealed ancestor was edited in place; the root
	// reference is returned as is but its contents changed.
	Unchanged

	// NewRoot means every ancestor was sealed and a new root was built.
	NewRoot
)

func (r Result) String() string {
	switch r {
	case NotFound:
		return "not-found"
	case Unchanged:
		return "unchanged"
	case NewRoot:
		return "new-root"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// DeferredSet collects unsealed ancestors edited in place whose derived
// child layout state must be recomputed after the pass.
type DeferredSet struct {
	nodes []*tree.Node
	seen  map[*tree.Node]struct{}
}

// Add records n once. It panics if n is sealed.
func (s *DeferredSet) Add(n *tree.Node) {
	if n.Sealed() {
		panic(fmt.Sprintf("treepatch: sealed node %s in deferred set", n.Family()))
	}
	if s.seen == nil {
		s.seen = map[*tree.Node]struct{}{}
	}
	if _, ok := s.seen[n]; ok {
		return
	}
	s.seen[n] = struct{}{}
	s.nodes = append(s.nodes, n)
}

func (s *DeferredSet) Contains(n *tree.Node) bool {
	_, ok := s.seen[n]
	return ok
}

// Nodes returns the recorded nodes in insertion order.
func (s *DeferredSet) Nodes() []*tree.Node {
	return s.nodes
}

func (s *DeferredSet) Len() int {
	return len(s.nodes)
}

// Patcher applies property patches to tree versions. A Patcher
// accumulates the deferred set and clone count over the patches of one
// commit pass and is not safe for concurrent use.
type Patcher struct {
	merger   PropertyMerger
	deferred DeferredSet
	cloned   int
}

func NewPatcher(merger PropertyMerger) *Patcher {
	return &Patcher{merger: merger}
}

// Deferred returns the nodes edited in place so far.
func (p *Patcher) Deferred() *DeferredSet {
	return &p.deferred
}

// Cloned returns the number of nodes allocated so far.
func (p *Patcher) Cloned() int {
	return p.cloned
}

// Apply sets the properties of the node of the given family in root to the
// merge of its current properties and patch.
//
// The target is located once, up front. The new target is then written
// into its parent: an unsealed parent is edited in place and the walk
// stops, returning root with Unchanged; a sealed parent is cloned with the
// new child and the clone is written into the next ancestor up. If the
// walk passes the root, the cloned root is returned with NewRoot. Sealed
// nodes are never modified.
func (p *Patcher) Apply(root *tree.Node, family tree.Family, patch tree.Props) (*tree.Node, Result, error) {
	ancestors := tree.AncestorsOf(root, family)
	if len(ancestors) == 0 {
		if debug.Patch() {
			debug.Logf("patch %s: not reachable from root %s\n", family, root.Family())
		}
		return root, NotFound, nil
	}
	oldTarget := ancestors.Target()
	props, err := p.merger.Merge(oldTarget.Type(), oldTarget.Props(), patch)
	if err != nil {
		return nil, NotFound, fmt.Errorf("patching %s: %w", family, err)
	}
	if debug.Patch() {
		debug.Logf("patch %s (%s): %v -> %v\n", family, oldTarget.Type(), oldTarget.Props(), props)
	}
	child := oldTarget.Clone(tree.Fragment{Props: props})
	p.cloned++

	for _, a := range ancestors {
		parent := a.Parent
		if cur := parent.Child(a.Index); !tree.SameFamily(cur, child) {
			return nil, NotFound, fmt.Errorf("%w: %s[%d] holds %s, expected %s",
				ErrIntegrity, parent.Family(), a.Index, cur.Family(), child.Family())
		}
		if !parent.Sealed() {
			parent.ReplaceChild(a.Index, child)
			p.deferred.Add(parent)
			if debug.Patch() {
				debug.Logf("patch %s: edited %s in place\n", family, parent.Family())
			}
			return root, Unchanged, nil
		}
		next := parent.Clone(tree.Fragment{})
		next.ReplaceChild(a.Index, child)
		p.cloned++
		child = next
	}
	return child, NewRoot, nil
}
