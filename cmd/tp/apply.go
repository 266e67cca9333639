package main

import (
	"fmt"

	"github.com/scott-cotton/cli"
	"github.com/signadot/treepatch"
	"github.com/signadot/treepatch/commit"
	"github.com/signadot/treepatch/encode"
	"github.com/signadot/treepatch/layout"
	"github.com/signadot/treepatch/parse"
	"github.com/signadot/treepatch/registry"
	"github.com/signadot/treepatch/tree"
)

func apply(cfg *ApplyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Apply.Parse(cc, args)
	if err != nil {
		cfg.Apply.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: apply requires 2 args, got %v", cli.ErrUsage, args)
	}
	root, err := getTreeFile(cc, args[0])
	if err != nil {
		return err
	}
	d, err := readFile(cc, args[1])
	if err != nil {
		return err
	}
	patches, err := parse.Patches(d)
	if err != nil {
		return fmt.Errorf("error decoding %s: %w", args[1], err)
	}
	merger, err := newMerger(cc, cfg.TypesPath, cfg.Strict)
	if err != nil {
		return err
	}

	pending := registry.New(registry.WithLogger(theLog))
	for _, p := range patches {
		pending.Update(p.Family, p.Props)
	}
	engine := layout.New(&layout.Config{Log: theLog})
	engine.Layout(root)
	hook := treepatch.NewCommitHook(&treepatch.Config{
		Registry:    pending,
		Merger:      merger,
		LayoutCache: engine,
		Layouter:    engine,
		Log:         theLog,
	})

	// in place edits change root, so render it first.
	var before string
	if cfg.Diff {
		before, err = encode.String(root, encode.EncodeSealed(cfg.Sealed))
		if err != nil {
			return err
		}
	}
	var res *tree.Node
	if cfg.Commit {
		res, err = commit.New(root, &commit.Config{
			Hooks: []commit.Hook{hook},
			Log:   theLog,
		}).Touch()
	} else {
		res, err = hook.OnBeforeCommit(root, root)
	}
	if err != nil {
		return err
	}
	if cfg.Stats {
		st := hook.LastPass()
		theLog.Info("pass",
			"pending", st.Pending,
			"inPlace", st.InPlace,
			"newRoots", st.NewRoots,
			"notFound", st.NotFound,
			"cloned", st.ClonedNodes,
			"recomputed", st.Recomputed,
			"layoutRuns", engine.Runs(),
			"duration", st.Duration)
	}
	if !cfg.Diff {
		return encode.Encode(res, cc.Out, cfg.encOpts(cc.Out)...)
	}
	after, err := encode.String(res, encode.EncodeSealed(cfg.Sealed))
	if err != nil {
		return err
	}
	differs, err := writeLineDiff(cc.Out, before, after, cfg.colors(cc.Out))
	if err != nil {
		return err
	}
	if differs {
		return cli.ExitCodeErr(1)
	}
	return nil
}
