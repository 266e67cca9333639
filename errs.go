package treepatch

import "errors"

var (
	// ErrIntegrity means an ancestor chain no longer describes the tree it
	// is applied to. It indicates a corrupted tree, not bad input.
	ErrIntegrity = errors.New("tree integrity violation")

	ErrNoRoot = errors.New("no root to commit")
)
