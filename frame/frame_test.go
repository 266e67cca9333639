package frame

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTick(t *testing.T) {
	r := NewRegistry()
	var got []string
	a := r.Register(func(i Info) { got = append(got, "a") }, true)
	b := r.Register(func(i Info) { got = append(got, "b") }, false)
	r.Register(func(i Info) { got = append(got, "c") }, true)

	t0 := time.Unix(100, 0)
	r.Tick(t0)
	if err := r.SetActive(b, true); err != nil {
		t.Fatal(err)
	}
	r.Unregister(a)
	r.Tick(t0.Add(16 * time.Millisecond))

	want := []string{"a", "c", "b", "c"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	if r.Active() != 2 {
		t.Errorf("active %d", r.Active())
	}
	if err := r.SetActive(a, true); err == nil {
		t.Error("expected error for unregistered callback")
	}
}

func TestInfo(t *testing.T) {
	r := NewRegistry()
	var infos []Info
	r.Register(func(i Info) { infos = append(infos, i) }, true)
	t0 := time.Unix(100, 0)
	r.Tick(t0)
	r.Tick(t0.Add(20 * time.Millisecond))
	want := []Info{
		{Frame: 0, Timestamp: t0},
		{Frame: 1, Timestamp: t0.Add(20 * time.Millisecond), Delta: 20 * time.Millisecond},
	}
	if diff := cmp.Diff(want, infos); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

// A callback may unregister itself while running.
func TestUnregisterDuringTick(t *testing.T) {
	r := NewRegistry()
	n := 0
	var id int
	id = r.Register(func(Info) {
		n++
		r.Unregister(id)
	}, true)
	r.Tick(time.Now())
	r.Tick(time.Now())
	if n != 1 {
		t.Errorf("ran %d times", n)
	}
}

func TestRun(t *testing.T) {
	r := NewRegistry()
	n := 0
	r.Register(func(Info) { n++ }, true)
	if err := r.Run(context.Background(), time.Millisecond, 3); err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("ticks %d", n)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx, time.Hour, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v", err)
	}
}
