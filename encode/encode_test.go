package encode

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/treepatch/tree"
)

func TestEncode(t *testing.T) {
	root := tree.New(1, "root", nil,
		tree.New(2, "view", tree.Props{"opacity": 0.5, "height": 10.0},
			tree.New(3, "text", tree.Props{"label": "hi"})),
		tree.New(4, "view", nil))
	root.Child(1).Seal()

	tests := []struct {
		name string
		opts []EncodeOption
		want string
	}{
		{
			name: "plain",
			want: `root #1
  view #2 {height: 10, opacity: 0.5}
    text #3 {label: "hi"}
  view #4
`,
		},
		{
			name: "sealed indent 1",
			opts: []EncodeOption{EncodeSealed(true), EncodeIndent(1)},
			want: `root #1
 view #2 {height: 10, opacity: 0.5}
  text #3 {label: "hi"}
 view #4 sealed
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := String(root, tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeColors(t *testing.T) {
	n := tree.New(1, "view", tree.Props{"x": 1.0})
	got := MustString(n, EncodeColors(NewColors()))
	if !strings.Contains(got, "\x1b[") {
		t.Errorf("expected ansi escapes in %q", got)
	}
	plain := MustString(n)
	if strings.Contains(plain, "\x1b[") {
		t.Errorf("unexpected ansi escapes in %q", plain)
	}
}

func TestEncodeBadValue(t *testing.T) {
	n := tree.New(1, "view", tree.Props{"f": func() {}})
	if _, err := String(n); err == nil {
		t.Error("expected error")
	}
}
