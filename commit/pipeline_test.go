package commit

import (
	"errors"
	"testing"

	"github.com/signadot/treepatch/tree"
)

type hookFunc func(old, next *tree.Node) (*tree.Node, error)

func (f hookFunc) OnBeforeCommit(old, next *tree.Node) (*tree.Node, error) {
	return f(old, next)
}

func TestCommitSealsAndPublishes(t *testing.T) {
	root := tree.New(1, "root", nil, tree.New(2, "view", nil))
	calls := 0
	var sawOld *tree.Node
	p := New(root, &Config{Hooks: []Hook{hookFunc(func(old, next *tree.Node) (*tree.Node, error) {
		calls++
		sawOld = old
		if next.Sealed() {
			t.Error("hook got a sealed root")
		}
		return next, nil
	})}})
	if !root.Sealed() || !root.Child(0).Sealed() {
		t.Fatal("initial version not sealed")
	}
	res, err := p.Touch()
	if err != nil {
		t.Fatal(err)
	}
	if calls != 1 || sawOld != root {
		t.Errorf("calls %d old %v", calls, sawOld)
	}
	if !res.Sealed() || p.Current() != res || p.Revision() != 1 {
		t.Error("result not published")
	}
	if res.Child(0) != root.Child(0) {
		t.Error("children not shared")
	}
}

func TestCommitHookChain(t *testing.T) {
	root := tree.New(1, "root", nil)
	mark := func(v string) Hook {
		return hookFunc(func(_, next *tree.Node) (*tree.Node, error) {
			props := next.Props().Clone()
			if props == nil {
				props = tree.Props{}
			}
			props["trail"] = func() string {
				s, _ := props["trail"].(string)
				return s + v
			}()
			return next.Clone(tree.Fragment{Props: props}), nil
		})
	}
	p := New(root, &Config{Hooks: []Hook{mark("a"), mark("b")}})
	res, err := p.Touch()
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := res.Prop("trail"); v != "ab" {
		t.Errorf("trail %v", v)
	}
}

func TestCommitErrors(t *testing.T) {
	root := tree.New(1, "root", nil)
	boom := errors.New("boom")
	p := New(root, &Config{Hooks: []Hook{hookFunc(func(_, _ *tree.Node) (*tree.Node, error) {
		return nil, boom
	})}})
	if _, err := p.Touch(); !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
	if p.Current() != root || p.Revision() != 0 {
		t.Error("failed commit published")
	}
	if _, err := p.Commit(func(*tree.Node) *tree.Node { return nil }); !errors.Is(err, ErrNoCommit) {
		t.Errorf("got %v", err)
	}
}
