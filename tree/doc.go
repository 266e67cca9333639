// Package tree provides the versioned render tree: nodes with a stable
// family identity, a property set, ordered children and a sealed flag, and
// ancestor chain resolution.
//
// Tree versions share sealed subtrees by reference. Nodes keep no parent
// pointers; the path to a node is recomputed against a given root with
// AncestorsOf, so the same node may appear in any number of versions.
package tree
