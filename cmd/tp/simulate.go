package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/scott-cotton/cli"
	"github.com/signadot/treepatch"
	"github.com/signadot/treepatch/commit"
	"github.com/signadot/treepatch/encode"
	"github.com/signadot/treepatch/frame"
	"github.com/signadot/treepatch/layout"
	"github.com/signadot/treepatch/metrics"
	"github.com/signadot/treepatch/registry"
	"github.com/signadot/treepatch/tree"
	"golang.org/x/sync/errgroup"
)

func simulate(cfg *SimulateConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Simulate.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: simulate requires 1 arg, got %v", cli.ErrUsage, args)
	}
	if cfg.Target <= 0 {
		return fmt.Errorf("%w: -target is required", cli.ErrUsage)
	}
	root, err := getTreeFile(cc, args[0])
	if err != nil {
		return err
	}
	target := tree.Family(cfg.Target)
	if root.Find(target) == nil {
		return fmt.Errorf("node %s not in %s", target, args[0])
	}
	merger, err := newMerger(cc, cfg.TypesPath, cfg.Strict)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	pending := registry.New(registry.WithLogger(theLog))
	engine := layout.New(&layout.Config{Log: theLog})
	engine.Layout(root)
	hook := treepatch.NewCommitHook(&treepatch.Config{
		Registry:    pending,
		Merger:      merger,
		LayoutCache: engine,
		Layouter:    engine,
		Metrics:     metrics.New(promReg),
		Log:         theLog,
	})
	pipeline := commit.New(root, &commit.Config{
		Hooks: []commit.Hook{hook},
		Log:   theLog,
	})

	frames := frame.NewRegistry()
	frames.Register(func(info frame.Info) {
		pending.Update(target, tree.Props{cfg.Prop: float64(info.Frame)})
	}, true)

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(sigCtx)
	framesDone := make(chan struct{})
	g.Go(func() error {
		defer close(framesDone)
		return frames.Run(ctx, cfg.Every, cfg.Frames)
	})
	g.Go(func() error {
		return commitLoop(ctx, pipeline, cfg.Every, framesDone)
	})
	// an interrupt ends the run but still reports it.
	if err := g.Wait(); err != nil && sigCtx.Err() == nil {
		return err
	}

	cur := pipeline.Current()
	if err := encode.Encode(cur, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return err
	}
	f, _ := engine.Frame(target)
	theLog.Info("simulated",
		"revision", pipeline.Revision(),
		"target", target,
		"y", f.Y,
		"height", f.Height,
		"pending", pending.Len(),
		"layoutRuns", engine.Runs())
	if !cfg.Metrics {
		return nil
	}
	mfs, err := promReg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(cc.Out, mf); err != nil {
			return err
		}
	}
	return nil
}

// commitLoop commits every interval until done is closed, then commits
// once more to flush patches from the last frame.
func commitLoop(ctx context.Context, p *commit.Pipeline, every time.Duration, done <-chan struct{}) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			_, err := p.Touch()
			return err
		case <-ticker.C:
			if _, err := p.Touch(); err != nil {
				return err
			}
		}
	}
}
