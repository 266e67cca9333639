// Package encode renders render trees as indented text, one node per line.
//
//	root #1 sealed
//	  view #2 {height: 10, opacity: 0.5}
//	    text #3 {x: 5}
package encode

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/treepatch/tree"
)

type EncodeOption func(*encoder)

type encoder struct {
	colors *Colors
	sealed bool
	indent int
}

// EncodeColors colors the output.
func EncodeColors(c *Colors) EncodeOption {
	return func(e *encoder) { e.colors = c }
}

// EncodeSealed marks sealed nodes.
func EncodeSealed(v bool) EncodeOption {
	return func(e *encoder) { e.sealed = v }
}

func EncodeIndent(n int) EncodeOption {
	return func(e *encoder) { e.indent = n }
}

func Encode(n *tree.Node, w io.Writer, opts ...EncodeOption) error {
	e := &encoder{indent: 2}
	for _, opt := range opts {
		opt(e)
	}
	bw := bufio.NewWriter(w)
	if err := e.encode(bw, n, 0); err != nil {
		return err
	}
	return bw.Flush()
}

func String(n *tree.Node, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(n, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func MustString(n *tree.Node, opts ...EncodeOption) string {
	s, err := String(n, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func (e *encoder) encode(w *bufio.Writer, n *tree.Node, depth int) error {
	c := e.colors
	w.WriteString(strings.Repeat(" ", depth*e.indent))
	w.WriteString(c.Color(TypeColor, "%s", n.Type()))
	w.WriteByte(' ')
	w.WriteString(c.Color(FamilyColor, "%s", n.Family()))
	if e.sealed && n.Sealed() {
		w.WriteByte(' ')
		w.WriteString(c.Color(SealColor, "sealed"))
	}
	props := n.Props()
	if len(props) != 0 {
		w.WriteString(" {")
		for i, k := range props.Keys() {
			if i != 0 {
				w.WriteString(c.Color(SepColor, ", "))
			}
			v, err := json.Marshal(props[k])
			if err != nil {
				return fmt.Errorf("encoding %s.%s: %w", n.Family(), k, err)
			}
			w.WriteString(c.Color(KeyColor, "%s", k))
			w.WriteString(c.Color(SepColor, ": "))
			w.WriteString(c.Color(ValueColor, "%s", v))
		}
		w.WriteByte('}')
	}
	w.WriteByte('\n')
	for _, child := range n.Children() {
		if err := e.encode(w, child, depth+1); err != nil {
			return err
		}
	}
	return nil
}
