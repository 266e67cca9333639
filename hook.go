package treepatch

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/signadot/treepatch/debug"
	"github.com/signadot/treepatch/metrics"
	"github.com/signadot/treepatch/tree"
)

// State is the phase of a commit pass.
type State int32

const (
	Idle State = iota
	Guarding
	Draining
	Applying
	Finalizing
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Guarding:
		return "guarding"
	case Draining:
		return "draining"
	case Applying:
		return "applying"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// PassStats summarizes one commit pass.
type PassStats struct {
	// Skipped is set when the root was the result of the previous pass.
	Skipped bool

	Pending     int
	InPlace     int
	NewRoots    int
	NotFound    int
	ClonedNodes int
	Recomputed  int
	Duration    time.Duration
}

// Config holds a CommitHook's collaborators. Registry and Merger are
// required.
type Config struct {
	Registry    PendingRegistry
	Merger      PropertyMerger
	LayoutCache ChildLayoutCache // optional
	Layouter    Layouter         // optional
	Metrics     *metrics.Metrics // optional
	Log         *slog.Logger     // optional
}

// CommitHook applies pending patches to every committed tree version.
// Passes are serialized.
type CommitHook struct {
	registry PendingRegistry
	merger   PropertyMerger
	cache    ChildLayoutCache
	layouter Layouter
	metrics  *metrics.Metrics
	log      *slog.Logger

	mu    sync.Mutex
	state atomic.Int32
	last  atomic.Pointer[PassStats]
}

func NewCommitHook(cfg *Config) *CommitHook {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &CommitHook{
		registry: cfg.Registry,
		merger:   cfg.Merger,
		cache:    cfg.LayoutCache,
		layouter: cfg.Layouter,
		metrics:  cfg.Metrics,
		log:      log.With("component", "commit-hook"),
	}
}

// State returns the phase of the current or most recent pass.
func (h *CommitHook) State() State {
	return State(h.state.Load())
}

func (h *CommitHook) setState(s State) {
	if debug.Hook() {
		debug.Logf("hook: %s -> %s\n", h.State(), s)
	}
	h.state.Store(int32(s))
}

// LastPass returns the statistics of the most recent pass.
func (h *CommitHook) LastPass() PassStats {
	if p := h.last.Load(); p != nil {
		return *p
	}
	return PassStats{}
}

type pendingEntry struct {
	family tree.Family
	patch  tree.Props
}

// OnBeforeCommit is called by the commit pipeline with the current and the
// about to be committed root. It returns the root to commit instead.
//
// A root produced by this hook's previous pass is returned as is.
// Otherwise pending patches are enumerated under the registry lock and
// applied, after the lock is released, to an unsealed copy of newRoot in
// enumeration order, each seeing the effects of the ones before. Patches
// whose target is gone are dropped. Finally child layout caches of nodes
// edited in place are recomputed and layout is requested on the result.
//
// An error aborts the pass; nothing published is affected.
func (h *CommitHook) OnBeforeCommit(oldRoot, newRoot *tree.Node) (*tree.Node, error) {
	if newRoot == nil {
		return nil, ErrNoRoot
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.setState(Guarding)
	if h.registry.IsResultOfLastPass(newRoot) {
		h.last.Store(&PassStats{Skipped: true})
		h.metrics.ObserveSkip()
		h.setState(Done)
		return newRoot, nil
	}

	h.setState(Draining)
	start := time.Now()
	entries := h.drain()
	stats := &PassStats{Pending: len(entries)}

	h.setState(Applying)
	patcher := NewPatcher(h.merger)
	root := newRoot.Clone(tree.Fragment{})
	for _, e := range entries {
		res, how, err := patcher.Apply(root, e.family, e.patch)
		if err != nil {
			h.setState(Idle)
			h.log.Error("commit pass aborted", "family", e.family, "error", err)
			return nil, err
		}
		switch how {
		case NotFound:
			stats.NotFound++
			h.log.Debug("dropping patch for unreachable node", "family", e.family)
			continue
		case Unchanged:
			stats.InPlace++
		case NewRoot:
			stats.NewRoots++
		}
		root = res
	}

	h.setState(Finalizing)
	if h.cache != nil {
		for _, n := range patcher.Deferred().Nodes() {
			h.cache.Recompute(n)
			stats.Recomputed++
		}
	}
	if h.layouter != nil {
		h.layouter.LayoutIfNeeded(root)
	}
	stats.ClonedNodes = patcher.Cloned()
	stats.Duration = time.Since(start)

	h.registry.SetLastPassResult(root)
	h.last.Store(stats)
	h.metrics.ObservePass(metrics.Pass{
		InPlace:     stats.InPlace,
		Cloned:      stats.NewRoots,
		NotFound:    stats.NotFound,
		ClonedNodes: stats.ClonedNodes,
		Recomputes:  stats.Recomputed,
		Duration:    stats.Duration,
	})
	if stats.Pending > 0 {
		h.log.Debug("commit pass",
			"old", familyOf(oldRoot),
			"pending", stats.Pending,
			"inPlace", stats.InPlace,
			"newRoots", stats.NewRoots,
			"notFound", stats.NotFound,
			"cloned", stats.ClonedNodes)
	}
	h.setState(Done)
	return root, nil
}

// drain snapshots the pending entries. The registry lock is held only for
// the enumeration.
func (h *CommitHook) drain() []pendingEntry {
	var entries []pendingEntry
	h.registry.Lock()
	defer h.registry.Unlock()
	h.registry.ForEachLocked(func(f tree.Family, p tree.Props) {
		entries = append(entries, pendingEntry{family: f, patch: p})
	})
	return entries
}

func familyOf(n *tree.Node) any {
	if n == nil {
		return nil
	}
	return n.Family()
}
