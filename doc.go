// Package treepatch folds out of band property patches into versions of a
// render tree at commit time.
//
// A Patcher applies one patch to one root by rewriting the target's
// ancestor chain copy on write: sealed ancestors are cloned, and the walk
// stops at the first unsealed ancestor, which is edited in place. A
// CommitHook runs once per tree commit, drains the pending patch registry
// under its lock, folds every entry through a Patcher and finalizes
// layout on the result.
package treepatch
