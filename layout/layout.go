// Package layout is a minimal layout engine for render trees: children are
// stacked vertically and a node is as tall as its "height" property or its
// children, whichever is more.
//
// Like a real engine it keeps its own copy of each node's child list. When
// a node's children are replaced in place that copy is stale until
// Recompute is called for the node.
package layout

import (
	"log/slog"
	"slices"
	"sync"

	"github.com/signadot/treepatch/debug"
	"github.com/signadot/treepatch/tree"
)

// HeightProp is the property holding a node's intrinsic height.
const HeightProp = "height"

type Frame struct {
	Y      float64
	Height float64
}

type Config struct {
	Log *slog.Logger
}

// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	children map[*tree.Node][]*tree.Node
	frames   map[tree.Family]Frame
	laidOut  *tree.Node
	dirty    bool
	runs     int
	log      *slog.Logger
}

func New(cfg *Config) *Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		children: map[*tree.Node][]*tree.Node{},
		frames:   map[tree.Family]Frame{},
		log:      log.With("component", "layout"),
	}
}

// Recompute refreshes the engine's copy of n's child list.
func (e *Engine) Recompute(n *tree.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if debug.Layout() {
		debug.Logf("layout: recompute children of %s\n", n.Family())
	}
	e.children[n] = slices.Clone(n.Children())
	e.dirty = true
}

// LayoutIfNeeded lays out root unless it was the last root laid out and no
// child list has been recomputed since.
func (e *Engine) LayoutIfNeeded(root *tree.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if root == e.laidOut && !e.dirty {
		return
	}
	e.layoutLocked(root)
}

// Layout lays out root unconditionally.
func (e *Engine) Layout(root *tree.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.layoutLocked(root)
}

func (e *Engine) layoutLocked(root *tree.Node) {
	live := map[*tree.Node]struct{}{}
	clear(e.frames)
	e.layout(root, 0, live)
	for n := range e.children {
		if _, ok := live[n]; !ok {
			delete(e.children, n)
		}
	}
	e.laidOut = root
	e.dirty = false
	e.runs++
	e.log.Debug("layout", "root", root.Family(), "nodes", len(live), "height", e.frames[root.Family()].Height)
}

func (e *Engine) layout(n *tree.Node, y float64, live map[*tree.Node]struct{}) float64 {
	live[n] = struct{}{}
	kids, ok := e.children[n]
	if !ok {
		kids = slices.Clone(n.Children())
		e.children[n] = kids
	}
	cy := y
	for _, c := range kids {
		cy += e.layout(c, cy, live)
	}
	h := number(n.Props()[HeightProp])
	if sum := cy - y; sum > h {
		h = sum
	}
	e.frames[n.Family()] = Frame{Y: y, Height: h}
	return h
}

// Frame returns the frame computed for family by the last layout.
func (e *Engine) Frame(f tree.Family) (Frame, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fr, ok := e.frames[f]
	return fr, ok
}

// Runs returns how many layouts were computed.
func (e *Engine) Runs() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.runs
}

func number(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case uint64:
		return float64(x)
	}
	return 0
}
