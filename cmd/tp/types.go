package main

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"
	"github.com/signadot/treepatch/propmerge"
)

func types(cfg *TypesConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Types.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 0 {
		return fmt.Errorf("%w: types takes no args, got %v", cli.ErrUsage, args)
	}
	reg, err := newMerger(cc, cfg.TypesPath, cfg.Strict)
	if err != nil {
		return err
	}
	out := struct {
		Strategies []propmerge.Strategy   `yaml:"strategies"`
		Types      []propmerge.Descriptor `yaml:"types,omitempty"`
	}{Strategies: propmerge.Strategies()}
	for _, typ := range reg.Types() {
		desc, _ := reg.Lookup(typ)
		out.Types = append(out.Types, desc)
	}
	d, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	_, err = cc.Out.Write(d)
	return err
}
