package treepatch

import (
	"sync"

	"github.com/signadot/treepatch/tree"
)

// PropertyMerger merges a property patch into the existing properties of a
// node of type typ. It must not modify its arguments.
type PropertyMerger interface {
	Merge(typ string, existing, patch tree.Props) (tree.Props, error)
}

// PendingRegistry stores pending patches written by producers.
//
// ForEachLocked may only be called while holding the lock. The registry
// decides whether enumerated entries are consumed.
type PendingRegistry interface {
	sync.Locker
	ForEachLocked(visit func(tree.Family, tree.Props))
	IsResultOfLastPass(root *tree.Node) bool
	SetLastPassResult(root *tree.Node)
}

// ChildLayoutCache holds layout state derived from a node's child list.
// Recompute is idempotent.
type ChildLayoutCache interface {
	Recompute(n *tree.Node)
}

// Layouter computes layout for a root if it is not up to date.
type Layouter interface {
	LayoutIfNeeded(root *tree.Node)
}
