package registry

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/treepatch/tree"
)

type entry struct {
	Family tree.Family
	Patch  tree.Props
}

func drain(r *Registry) []entry {
	var res []entry
	r.Lock()
	defer r.Unlock()
	r.ForEachLocked(func(f tree.Family, p tree.Props) {
		res = append(res, entry{f, p})
	})
	return res
}

func TestUpdateOverlaysAndOrders(t *testing.T) {
	r := New()
	r.Update(3, tree.Props{"x": 1})
	r.Update(1, tree.Props{"y": 1})
	r.Update(3, tree.Props{"x": 2, "z": 3})
	if r.Len() != 2 {
		t.Fatalf("len %d", r.Len())
	}
	want := []entry{
		{3, tree.Props{"x": 2, "z": 3}},
		{1, tree.Props{"y": 1}},
	}
	if diff := cmp.Diff(want, drain(r)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if got := drain(r); len(got) != 0 {
		t.Errorf("entries not consumed: %v", got)
	}
}

func TestSnapshotNotModified(t *testing.T) {
	r := New()
	p := tree.Props{"x": 1}
	r.Update(1, p)
	p["x"] = 100
	first := drain(r)
	r.Update(1, tree.Props{"x": 2})
	if diff := cmp.Diff([]entry{{1, tree.Props{"x": 1}}}, first); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestRetain(t *testing.T) {
	r := New(Retain(true))
	r.Update(1, tree.Props{"x": 1})
	a := drain(r)
	b := drain(r)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("retained entries differ (-first +second):\n%s", diff)
	}
	r.Remove(1)
	r.Remove(7)
	if got := drain(r); len(got) != 0 {
		t.Errorf("removed entry still pending: %v", got)
	}
}

func TestRemoveKeepsOrder(t *testing.T) {
	r := New()
	for f := range tree.Family(4) {
		r.Update(f, tree.Props{"f": int(f)})
	}
	r.Remove(1)
	var got []tree.Family
	for _, e := range drain(r) {
		got = append(got, e.Family)
	}
	if diff := cmp.Diff([]tree.Family{0, 2, 3}, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestLastPassMarker(t *testing.T) {
	r := New()
	n := tree.New(1, "root", nil)
	if r.IsResultOfLastPass(n) {
		t.Error("marker set before any pass")
	}
	if r.IsResultOfLastPass(nil) {
		t.Error("nil root is never a pass result")
	}
	r.SetLastPassResult(n)
	if !r.IsResultOfLastPass(n) {
		t.Error("marker not recognized")
	}
	if r.IsResultOfLastPass(n.Clone(tree.Fragment{})) {
		t.Error("clone mistaken for pass result")
	}
}

// Writes racing with enumeration are either seen by the pass or left for
// the next one; none is lost.
func TestConcurrentProducers(t *testing.T) {
	r := New()
	const producers, writes = 4, 200
	var wg sync.WaitGroup
	for p := range producers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range writes {
				r.Update(tree.Family(p*writes+i), tree.Props{"v": i})
			}
		}()
	}
	seen := map[tree.Family]int{}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	collect := func() {
		for _, e := range drain(r) {
			seen[e.Family]++
		}
	}
loop:
	for {
		select {
		case <-done:
			break loop
		default:
			collect()
		}
	}
	collect()
	if len(seen) != producers*writes {
		t.Fatalf("saw %d families, want %d", len(seen), producers*writes)
	}
	for f, n := range seen {
		if n != 1 {
			t.Errorf("family %s enumerated %d times", f, n)
		}
	}
}
