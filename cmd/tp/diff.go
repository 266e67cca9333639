package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// writeLineDiff writes a line oriented diff of a and b, prefixing lines
// with '-', '+' or ' '. It reports whether a and b differ.
func writeLineDiff(w io.Writer, a, b string, colors bool) (bool, error) {
	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	plain := fmt.Sprint
	del, ins := plain, plain
	if colors {
		red, green := color.New(color.FgRed), color.New(color.FgGreen)
		red.EnableColor()
		green.EnableColor()
		del, ins = red.SprintFunc(), green.SprintFunc()
	}
	var (
		sb      strings.Builder
		differs bool
	)
	for _, d := range diffs {
		prefix, paint := "  ", plain
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix, paint, differs = "- ", del, true
		case diffmatchpatch.DiffInsert:
			prefix, paint, differs = "+ ", ins, true
		}
		for _, line := range strings.Split(strings.TrimSuffix(d.Text, "\n"), "\n") {
			sb.WriteString(paint(prefix + line))
			sb.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, sb.String())
	return differs, err
}
