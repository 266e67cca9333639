package propmerge

import (
	"encoding/json"
	"fmt"
	"maps"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/signadot/treepatch/tree"
)

// Strategy names how a patch is folded into an existing property set.
type Strategy string

const (
	// Merge applies the patch as an RFC 7386 merge patch: null removes a
	// property, nested objects are merged recursively.
	Merge Strategy = "merge"

	// Replace overlays the patch's top level properties; nested values are
	// replaced wholesale and null removes a property.
	Replace Strategy = "replace"

	// JSONPatch applies the RFC 6902 operation list found under OpsKey,
	// after merging the remaining properties as with Merge.
	JSONPatch Strategy = "json-patch"
)

// OpsKey is the patch property holding RFC 6902 operations for the
// JSONPatch strategy.
const OpsKey = "$ops"

func Strategies() []Strategy {
	return []Strategy{Merge, Replace, JSONPatch}
}

func (s Strategy) valid() bool {
	switch s {
	case Merge, Replace, JSONPatch:
		return true
	}
	return false
}

func (s Strategy) apply(existing, patch tree.Props) (tree.Props, error) {
	switch s {
	case Merge, "":
		return mergePatch(existing, patch)
	case Replace:
		return replace(existing, patch), nil
	case JSONPatch:
		return opsPatch(existing, patch)
	}
	return nil, fmt.Errorf("%w %q", ErrStrategy, s)
}

func replace(existing, patch tree.Props) tree.Props {
	res := make(tree.Props, len(existing)+len(patch))
	maps.Copy(res, existing)
	for k, v := range patch {
		if v == nil {
			delete(res, k)
			continue
		}
		res[k] = v
	}
	return res
}

func mergePatch(existing, patch tree.Props) (tree.Props, error) {
	doc, err := marshalProps(existing)
	if err != nil {
		return nil, err
	}
	p, err := marshalProps(patch)
	if err != nil {
		return nil, err
	}
	out, err := jsonpatch.MergePatch(doc, p)
	if err != nil {
		return nil, fmt.Errorf("merge patch: %w", err)
	}
	return unmarshalProps(out)
}

func opsPatch(existing, patch tree.Props) (tree.Props, error) {
	ops, ok := patch[OpsKey]
	if !ok {
		return mergePatch(existing, patch)
	}
	rest := maps.Clone(patch)
	delete(rest, OpsKey)
	res, err := mergePatch(existing, rest)
	if err != nil {
		return nil, err
	}
	d, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOps, err)
	}
	jp, err := jsonpatch.DecodePatch(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOps, err)
	}
	doc, err := marshalProps(res)
	if err != nil {
		return nil, err
	}
	out, err := jp.Apply(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOps, err)
	}
	return unmarshalProps(out)
}

func marshalProps(p tree.Props) ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	d, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding properties: %w", err)
	}
	return d, nil
}

func unmarshalProps(d []byte) (tree.Props, error) {
	res := tree.Props{}
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	return res, nil
}

// jsonValue brings v to the shape it would have after a JSON round trip.
func jsonValue(v any) (any, error) {
	d, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var res any
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, err
	}
	return res, nil
}
