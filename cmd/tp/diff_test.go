package main

import (
	"bytes"
	"testing"
)

func TestWriteLineDiff(t *testing.T) {
	a := "root #1\n  view #2 {height: 10}\n  text #3\n"
	b := "root #1\n  view #2 {height: 20}\n  text #3\n"
	var buf bytes.Buffer
	differs, err := writeLineDiff(&buf, a, b, false)
	if err != nil {
		t.Fatal(err)
	}
	if !differs {
		t.Error("expected a difference")
	}
	want := "  root #1\n-   view #2 {height: 10}\n+   view #2 {height: 20}\n    text #3\n"
	if got := buf.String(); got != want {
		t.Errorf("got\n%s\nwant\n%s", got, want)
	}

	buf.Reset()
	differs, err = writeLineDiff(&buf, a, a, false)
	if err != nil {
		t.Fatal(err)
	}
	if differs || buf.String() != "  root #1\n    view #2 {height: 10}\n    text #3\n" {
		t.Errorf("differs=%v %q", differs, buf.String())
	}
}
