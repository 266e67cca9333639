package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/treepatch/tree"
)

func stack() *tree.Node {
	return tree.New(1, "root", nil,
		tree.New(2, "view", nil,
			tree.New(3, "text", tree.Props{"height": 5.0}),
			tree.New(4, "text", tree.Props{"height": 2})),
		tree.New(5, "view", tree.Props{"height": 30.0}))
}

func TestLayout(t *testing.T) {
	e := New(&Config{})
	e.LayoutIfNeeded(stack())
	want := map[tree.Family]Frame{
		1: {Y: 0, Height: 37},
		2: {Y: 0, Height: 7},
		3: {Y: 0, Height: 5},
		4: {Y: 5, Height: 2},
		5: {Y: 7, Height: 30},
	}
	got := map[tree.Family]Frame{}
	for f := range want {
		fr, ok := e.Frame(f)
		if !ok {
			t.Fatalf("no frame for %s", f)
		}
		got[f] = fr
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLayoutIfNeededSkipsSameRoot(t *testing.T) {
	e := New(&Config{})
	root := stack()
	e.LayoutIfNeeded(root)
	e.LayoutIfNeeded(root)
	if e.Runs() != 1 {
		t.Errorf("runs %d", e.Runs())
	}
	e.Recompute(root.Child(0))
	e.LayoutIfNeeded(root)
	if e.Runs() != 2 {
		t.Errorf("runs %d after recompute", e.Runs())
	}
	e.LayoutIfNeeded(stack())
	if e.Runs() != 3 {
		t.Errorf("runs %d for new root", e.Runs())
	}
}

func TestStaleChildrenUntilRecompute(t *testing.T) {
	e := New(&Config{})
	root := stack()
	e.Layout(root)

	b := root.Child(0)
	b.ReplaceChild(0, b.Child(0).Clone(tree.Fragment{Props: tree.Props{"height": 10.0}}))

	e.Layout(root)
	if fr, _ := e.Frame(2); fr.Height != 7 {
		t.Errorf("expected stale height 7, got %v", fr.Height)
	}
	e.Recompute(b)
	e.Layout(root)
	if fr, _ := e.Frame(2); fr.Height != 12 {
		t.Errorf("height %v, want 12", fr.Height)
	}
	if fr, _ := e.Frame(5); fr.Y != 12 {
		t.Errorf("sibling y %v, want 12", fr.Y)
	}
}
