package propmerge

import "errors"

var (
	ErrNoDescriptor = errors.New("no property descriptor for node type")
	ErrStrategy     = errors.New("unknown merge strategy")
	ErrNormalize    = errors.New("property normalizer failed")
	ErrOps          = errors.New("bad json-patch operations")
)
