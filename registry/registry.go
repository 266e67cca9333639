// Package registry holds property patches written by producers until the
// next commit pass consumes them.
//
// Producers call Update from any goroutine. The commit hook takes the
// registry lock, enumerates pending entries with ForEachLocked and releases
// the lock before applying them.
package registry

import (
	"log/slog"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/signadot/treepatch/debug"
	"github.com/signadot/treepatch/tree"
)

// Registry is a thread safe family to patch store.
type Registry struct {
	mu      sync.Mutex
	pending map[tree.Family]tree.Props
	order   []tree.Family
	retain  bool

	last atomic.Pointer[tree.Node]
	log  *slog.Logger
}

type Option func(*Registry)

// Retain keeps entries after they are enumerated so that every commit
// pass re-applies them. Without it entries are consumed by the pass that
// observes them.
func Retain(v bool) Option {
	return func(r *Registry) { r.retain = v }
}

func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

func New(opts ...Option) *Registry {
	r := &Registry{pending: map[tree.Family]tree.Props{}}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = slog.Default()
	}
	r.log = r.log.With("component", "registry")
	return r
}

// Update records a patch for family. A patch already pending for family
// is overlaid with patch, last write winning per key. Maps handed out by
// ForEachLocked are never modified afterwards.
func (r *Registry) Update(family tree.Family, patch tree.Props) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.pending[family]
	if !ok {
		r.pending[family] = patch.Clone()
		r.order = append(r.order, family)
		return
	}
	next := make(tree.Props, len(cur)+len(patch))
	maps.Copy(next, cur)
	maps.Copy(next, patch)
	r.pending[family] = next
}

// Remove drops any pending patch for family, as when the element is
// unmounted.
func (r *Registry) Remove(family tree.Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removeLocked(family)
}

func (r *Registry) removeLocked(family tree.Family) {
	if _, ok := r.pending[family]; !ok {
		return
	}
	delete(r.pending, family)
	for i, f := range r.order {
		if f == family {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of pending entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Lock acquires the registry's exclusive lock.
func (r *Registry) Lock() {
	r.mu.Lock()
}

func (r *Registry) Unlock() {
	r.mu.Unlock()
}

// ForEachLocked calls visit for every pending entry in first write order.
// The caller must hold the lock. Unless the registry retains entries they
// are removed once enumerated.
func (r *Registry) ForEachLocked(visit func(tree.Family, tree.Props)) {
	if debug.Registry() {
		debug.Logf("registry: enumerating %d entries (retain=%t)\n", len(r.order), r.retain)
	}
	for _, f := range r.order {
		visit(f, r.pending[f])
	}
	if r.retain {
		return
	}
	if n := len(r.order); n > 0 {
		r.log.Debug("consumed pending patches", "count", n)
	}
	clear(r.pending)
	r.order = r.order[:0]
}

// IsResultOfLastPass reports whether root is the root produced by the most
// recent commit pass.
func (r *Registry) IsResultOfLastPass(root *tree.Node) bool {
	return root != nil && r.last.Load() == root
}

func (r *Registry) SetLastPassResult(root *tree.Node) {
	r.last.Store(root)
}
