// Package parse reads render trees, pending patches and node type
// descriptors from YAML (or JSON) documents.
//
// A tree document is a node:
//
//	id: 1
//	type: root
//	sealed: true
//	props: {height: 10}
//	children:
//	- id: 2
//	  type: view
//
// A sealed node seals its whole subtree. A patch document is a list of
// {id, props} entries; a descriptor document has a list under "types".
package parse

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/signadot/treepatch/propmerge"
	"github.com/signadot/treepatch/tree"
)

type NodeSpec struct {
	ID       uint64         `yaml:"id"`
	Type     string         `yaml:"type"`
	Sealed   bool           `yaml:"sealed"`
	Props    map[string]any `yaml:"props"`
	Children []*NodeSpec    `yaml:"children"`
}

type PatchSpec struct {
	ID    uint64         `yaml:"id"`
	Props map[string]any `yaml:"props"`
}

// Patch is a parsed pending patch.
type Patch struct {
	Family tree.Family
	Props  tree.Props
}

type descriptorFile struct {
	Types []propmerge.Descriptor `yaml:"types"`
}

func Tree(data []byte) (*tree.Node, error) {
	var spec NodeSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	seen := map[tree.Family]bool{}
	return build(&spec, seen)
}

func build(spec *NodeSpec, seen map[tree.Family]bool) (*tree.Node, error) {
	if spec.ID == 0 {
		return nil, ErrNoID
	}
	f := tree.Family(spec.ID)
	if spec.Type == "" {
		return nil, fmt.Errorf("%w (%s)", ErrNoType, f)
	}
	if seen[f] {
		return nil, fmt.Errorf("%w %s", ErrDuplicate, f)
	}
	seen[f] = true
	props, err := Props(spec.Props)
	if err != nil {
		return nil, fmt.Errorf("node %s: %w", f, err)
	}
	children := make([]*tree.Node, 0, len(spec.Children))
	for _, c := range spec.Children {
		child, err := build(c, seen)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	n := tree.New(f, spec.Type, props, children...)
	if spec.Sealed {
		n.Seal()
	}
	return n, nil
}

func Patches(data []byte) ([]Patch, error) {
	var specs []PatchSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	res := make([]Patch, 0, len(specs))
	for i, s := range specs {
		if s.ID == 0 {
			return nil, fmt.Errorf("patch %d: %w", i, ErrNoID)
		}
		props, err := Props(s.Props)
		if err != nil {
			return nil, fmt.Errorf("patch %d: %w", i, err)
		}
		res = append(res, Patch{Family: tree.Family(s.ID), Props: props})
	}
	return res, nil
}

func Descriptors(data []byte) ([]propmerge.Descriptor, error) {
	var f descriptorFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return f.Types, nil
}

// Props converts decoded YAML values to JSON compatible properties.
func Props(m map[string]any) (tree.Props, error) {
	if m == nil {
		return nil, nil
	}
	v, err := jsonAny(m)
	if err != nil {
		return nil, err
	}
	d, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	res := tree.Props{}
	if err := json.Unmarshal(d, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return res, nil
}

// jsonAny rewrites maps with non string keys, which encoding/json rejects.
func jsonAny(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			y, err := jsonAny(vv)
			if err != nil {
				return nil, err
			}
			res[k] = y
		}
		return res, nil
	case map[any]any:
		res := make(map[string]any, len(x))
		for k, vv := range x {
			ks, ok := k.(string)
			if !ok {
				ks = fmt.Sprint(k)
			}
			y, err := jsonAny(vv)
			if err != nil {
				return nil, err
			}
			res[ks] = y
		}
		return res, nil
	case []any:
		res := make([]any, len(x))
		for i, vv := range x {
			y, err := jsonAny(vv)
			if err != nil {
				return nil, err
			}
			res[i] = y
		}
		return res, nil
	}
	return v, nil
}
