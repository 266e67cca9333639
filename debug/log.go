package debug

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/signadot/treepatch/encode"
	"github.com/signadot/treepatch/tree"
)

// Logf writes to stderr, rendering tree nodes and property sets in
// readable form.
func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *tree.Node:
			s, err := encode.String(x)
			if err != nil {
				args[i] = fmt.Sprintf("[raw *tree.Node] %v", x)
				continue
			}
			args[i] = s
		case tree.Props, map[string]any:
			d, err := json.Marshal(x)
			if err != nil {
				args[i] = fmt.Sprintf("%v", x)
				continue
			}
			args[i] = string(d)
		}
	}
	fmt.Fprintf(os.Stderr, msg, args...)
}
