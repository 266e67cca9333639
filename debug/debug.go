package debug

import (
	"os"
	"strconv"
)

type debug struct {
	Patch    bool
	Hook     bool
	Layout   bool
	Registry bool
}

var d *debug

func init() {
	d = &debug{}
	d.Patch = boolEnv("TREEPATCH_DEBUG_PATCH")
	d.Hook = boolEnv("TREEPATCH_DEBUG_HOOK")
	d.Layout = boolEnv("TREEPATCH_DEBUG_LAYOUT")
	d.Registry = boolEnv("TREEPATCH_DEBUG_REGISTRY")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Patch() bool {
	return d.Patch
}
func Hook() bool {
	return d.Hook
}
func Layout() bool {
	return d.Layout
}
func Registry() bool {
	return d.Registry
}
