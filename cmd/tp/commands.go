package main

import (
	"time"

	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "tp").
		WithSynopsis("tp [opts] command [opts]").
		WithDescription("tp applies pending property patches to render trees.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return tpMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			ApplyCommand(cfg),
			TypesCommand(cfg),
			SimulateCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("view").
		WithAliases("v").
		WithOpts(opts...).
		WithSynopsis("view [files]").
		WithDescription("view render tree files").
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
	cfg.View = cmd
	return cmd
}

func ApplyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ApplyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("apply").
		WithAliases("a", "ap").
		WithOpts(opts...).
		WithSynopsis("apply [opts] <tree> <patches>").
		WithDescription(applyDescription).
		WithRun(func(cc *cli.Context, args []string) error {
			return apply(cfg, cc, args)
		})
	cfg.Apply = cmd
	return cmd
}

const applyDescription = `apply runs one commit pass over a render tree.

The tree file holds a single node:

  id: 1
  type: root
  sealed: true
  children:
  - id: 2
    type: view
    props: {height: 10}

and the patches file a list of pending property patches:

  - id: 2
    props: {height: 20, color: red}

Patches are queued in a pending registry and applied by the commit hook.
Sealed nodes on the path to a patched node are cloned; unsealed nodes are
edited in place. With -commit the tree is first published through a
commit pipeline, which seals it.

Node types merge properties with a recursive merge unless a types file
(see 'tp types') assigns another strategy.`

func TypesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TypesConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	cmd := cli.NewCommand("types").
		WithAliases("t").
		WithOpts(opts...).
		WithSynopsis("types [-types file]").
		WithDescription("list merge strategies and node type descriptors").
		WithRun(func(cc *cli.Context, args []string) error {
			return types(cfg, cc, args)
		})
	cfg.Types = cmd
	return cmd
}

func SimulateCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SimulateConfig{
		MainConfig: mainCfg,
		Every:      16 * time.Millisecond,
		Frames:     60,
		Prop:       "height",
	}
	everyOpt := &cli.Opt{
		Name:        "every",
		Description: "frame interval",
		Type:        cli.NamedFuncOpt(cli.FuncOpt(cfg.mkEvery()), "(duration)"),
	}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, everyOpt)
	cmd := cli.NewCommand("simulate").
		WithAliases("sim").
		WithOpts(opts...).
		WithSynopsis("simulate [opts] -target id <tree>").
		WithDescription("animate a property with a frame callback while committing concurrently").
		WithRun(func(cc *cli.Context, args []string) error {
			return simulate(cfg, cc, args)
		})
	cfg.Simulate = cmd
	return cmd
}
