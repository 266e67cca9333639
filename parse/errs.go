package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse     = errors.New("parse error")
	ErrNoID      = fmt.Errorf("%w: node without id", ErrParse)
	ErrNoType    = fmt.Errorf("%w: node without type", ErrParse)
	ErrDuplicate = fmt.Errorf("%w: duplicate node id", ErrParse)
)
