// Package propmerge provides per node type property merging.
//
// Each node type is described by a Descriptor naming a merge Strategy and
// optional normalizer expressions. A Registry of descriptors implements
// the property merger used by the tree patcher.
package propmerge

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/treepatch/tree"
)

// Descriptor declares how properties of one node type are merged.
//
// Normalize maps a property name to an expression evaluated whenever a
// patch sets that property. The expression sees `value` (the merged
// value), `old` (the value before the patch, nil if unset) and `props`
// (the merged property set); its result becomes the property's value.
type Descriptor struct {
	Type      string            `yaml:"type"`
	Strategy  Strategy          `yaml:"strategy"`
	Normalize map[string]string `yaml:"normalize"`
}

type normalizer struct {
	prop string
	prg  *vm.Program
}

type entry struct {
	desc      Descriptor
	normalize []normalizer
}

// Registry maps node types to descriptors. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	types    map[string]*entry
	fallback *entry
}

type Option func(*Registry)

// WithFallback makes types without a descriptor merge with s instead of
// failing with ErrNoDescriptor.
func WithFallback(s Strategy) Option {
	return func(r *Registry) {
		r.fallback = &entry{desc: Descriptor{Type: "*", Strategy: s}}
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{types: map[string]*entry{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds or replaces descriptors. Nothing is registered if any
// descriptor is invalid.
func (r *Registry) Register(descs ...Descriptor) error {
	entries := make([]*entry, 0, len(descs))
	for _, d := range descs {
		e, err := compile(d)
		if err != nil {
			return err
		}
		entries = append(entries, e)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range entries {
		r.types[e.desc.Type] = e
	}
	return nil
}

func compile(d Descriptor) (*entry, error) {
	if d.Type == "" {
		return nil, fmt.Errorf("descriptor without type")
	}
	if d.Strategy == "" {
		d.Strategy = Merge
	}
	if !d.Strategy.valid() {
		return nil, fmt.Errorf("%w %q for type %q", ErrStrategy, d.Strategy, d.Type)
	}
	e := &entry{desc: d}
	for _, prop := range slices.Sorted(maps.Keys(d.Normalize)) {
		prg, err := expr.Compile(d.Normalize[prop])
		if err != nil {
			return nil, fmt.Errorf("type %q normalizer for %q: %w", d.Type, prop, err)
		}
		e.normalize = append(e.normalize, normalizer{prop: prop, prg: prg})
	}
	return e, nil
}

func (r *Registry) Lookup(typ string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.types[typ]
	if !ok {
		return Descriptor{}, false
	}
	return e.desc, true
}

// Types returns the registered node types, sorted.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.types))
}

func (r *Registry) lookupEntry(typ string) *entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.types[typ]; ok {
		return e
	}
	return r.fallback
}

// Merge folds patch into existing according to typ's descriptor. existing
// and patch are not modified.
func (r *Registry) Merge(typ string, existing, patch tree.Props) (tree.Props, error) {
	e := r.lookupEntry(typ)
	if e == nil {
		return nil, fmt.Errorf("%w %q", ErrNoDescriptor, typ)
	}
	res, err := e.desc.Strategy.apply(existing, patch)
	if err != nil {
		return nil, fmt.Errorf("merging %q properties: %w", typ, err)
	}
	for _, n := range e.normalize {
		if _, set := patch[n.prop]; !set {
			continue
		}
		v, present := res[n.prop]
		if !present {
			continue
		}
		env := map[string]any{
			"value": v,
			"old":   existing[n.prop],
			"props": map[string]any(res),
		}
		out, err := expr.Run(n.prg, env)
		if err != nil {
			return nil, fmt.Errorf("%w: %q.%s: %w", ErrNormalize, typ, n.prop, err)
		}
		out, err = jsonValue(out)
		if err != nil {
			return nil, fmt.Errorf("%w: %q.%s: %w", ErrNormalize, typ, n.prop, err)
		}
		res[n.prop] = out
	}
	return res, nil
}
