// Package commit is a minimal host commit pipeline: it holds the published
// tree version, builds the next one with a transaction, lets commit hooks
// rewrite it, then seals and publishes it.
package commit

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/signadot/treepatch/tree"
)

var ErrNoCommit = errors.New("transaction produced no root")

// Hook rewrites a root about to be committed.
type Hook interface {
	OnBeforeCommit(oldRoot, newRoot *tree.Node) (*tree.Node, error)
}

// Transaction builds the next version from the published one.
type Transaction func(cur *tree.Node) *tree.Node

type Config struct {
	Hooks []Hook
	Log   *slog.Logger
}

// Pipeline serializes commits. Published roots are sealed.
type Pipeline struct {
	mu       sync.Mutex
	current  *tree.Node
	revision uint64
	hooks    []Hook
	log      *slog.Logger
}

// New publishes root as the initial version.
func New(root *tree.Node, cfg *Config) *Pipeline {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	root.Seal()
	return &Pipeline{
		current: root,
		hooks:   cfg.Hooks,
		log:     log.With("component", "commit"),
	}
}

// Current returns the published version.
func (p *Pipeline) Current() *tree.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Revision counts successful commits.
func (p *Pipeline) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revision
}

// Commit runs tx against the published version, passes the result through
// every hook, then seals and publishes it. On error the published version
// is unchanged.
func (p *Pipeline) Commit(tx Transaction) (*tree.Node, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	old := p.current
	next := tx(old)
	if next == nil {
		return nil, ErrNoCommit
	}
	for i, h := range p.hooks {
		res, err := h.OnBeforeCommit(old, next)
		if err != nil {
			p.log.Error("commit hook failed", "hook", i, "revision", p.revision+1, "error", err)
			return nil, fmt.Errorf("commit hook %d: %w", i, err)
		}
		next = res
	}
	next.Seal()
	p.current = next
	p.revision++
	return next, nil
}

// Touch commits a shallow copy of the published version, giving hooks a
// chance to run without any host side change.
func (p *Pipeline) Touch() (*tree.Node, error) {
	return p.Commit(func(cur *tree.Node) *tree.Node {
		return cur.Clone(tree.Fragment{})
	})
}
