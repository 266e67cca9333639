package encode

import (
	"fmt"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	TypeColor ColorAttr = iota
	FamilyColor
	KeyColor
	ValueColor
	SealColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	return &Colors{
		Default: fmt.Sprintf,
		Map: map[ColorAttr]func(string, ...any) string{
			TypeColor:   colorFunc(color.RGB(74, 92, 138), color.Bold),
			FamilyColor: colorFunc(color.New(color.FgMagenta)),
			KeyColor:    colorFunc(color.RGB(196, 96, 16)),
			ValueColor:  colorFunc(color.RGB(128, 216, 236)),
			SealColor:   colorFunc(color.New(color.Faint)),
			SepColor:    colorFunc(color.RGB(255, 0, 196)),
		},
	}
}

// colorFunc forces color on: whether to color at all is decided by the
// caller choosing to pass Colors.
func colorFunc(c *color.Color, attrs ...color.Attribute) func(string, ...any) string {
	c.Add(attrs...)
	c.EnableColor()
	return c.SprintfFunc()
}

func (c *Colors) Color(attr ColorAttr, f string, args ...any) string {
	if c == nil {
		return fmt.Sprintf(f, args...)
	}
	if fn, ok := c.Map[attr]; ok {
		return fn(f, args...)
	}
	return c.Default(f, args...)
}
