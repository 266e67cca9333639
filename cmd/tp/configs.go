package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/treepatch/encode"
	"github.com/signadot/treepatch/parse"
	"github.com/signadot/treepatch/propmerge"
)

type MainConfig struct {
	Color  bool `cli:"name=color desc='encode with color'"`
	Sealed bool `cli:"name=sealed desc='mark sealed nodes'"`
	Indent int  `cli:"name=indent desc='indentation width'"`

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{encode.EncodeSealed(cfg.Sealed)}
	if cfg.Indent > 0 {
		res = append(res, encode.EncodeIndent(cfg.Indent))
	}
	if cfg.colors(w) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

func (cfg *MainConfig) colors(w io.Writer) bool {
	if cfg.Color {
		return true
	}
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		if opt.Value != nil {
			return false
		}
		break
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// newMerger builds the property merger from an optional descriptor file.
// Unless strict, types without a descriptor merge recursively.
func newMerger(cc *cli.Context, file string, strict bool) (*propmerge.Registry, error) {
	var opts []propmerge.Option
	if !strict {
		opts = append(opts, propmerge.WithFallback(propmerge.Merge))
	}
	reg := propmerge.NewRegistry(opts...)
	if file == "" {
		return reg, nil
	}
	d, err := readFile(cc, file)
	if err != nil {
		return nil, err
	}
	descs, err := parse.Descriptors(d)
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", file, err)
	}
	if err := reg.Register(descs...); err != nil {
		return nil, fmt.Errorf("error registering types from %s: %w", file, err)
	}
	return reg, nil
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type ApplyConfig struct {
	*MainConfig
	TypesPath string `cli:"name=types desc='node type descriptor file'"`
	Strict    bool   `cli:"name=strict desc='fail on node types without a descriptor'"`

	Diff   bool `cli:"name=d aliases=diff desc='show a line diff of the tree'"`
	Commit bool `cli:"name=commit desc='publish the tree through a commit pipeline'"`
	Stats  bool `cli:"name=stats desc='log pass statistics'"`

	Apply *cli.Command
}

type TypesConfig struct {
	*MainConfig
	TypesPath string `cli:"name=types desc='node type descriptor file'"`
	Strict    bool   `cli:"name=strict desc='fail on node types without a descriptor'"`

	Types *cli.Command
}

type SimulateConfig struct {
	*MainConfig
	TypesPath string `cli:"name=types desc='node type descriptor file'"`
	Strict    bool   `cli:"name=strict desc='fail on node types without a descriptor'"`

	Frames  int    `cli:"name=frames desc='number of frames, 0 runs until interrupted'"`
	Target  int    `cli:"name=target desc='id of the animated node'"`
	Prop    string `cli:"name=prop desc='animated property'"`
	Metrics bool   `cli:"name=metrics desc='print commit metrics'"`
	Every   time.Duration

	Simulate *cli.Command
}

func (cfg *SimulateConfig) mkEvery() func(cc *cli.Context, a string) (any, error) {
	return func(_ *cli.Context, a string) (any, error) {
		d, err := time.ParseDuration(a)
		if err != nil {
			return nil, err
		}
		if d <= 0 {
			return nil, fmt.Errorf("%w: -every must be positive", cli.ErrUsage)
		}
		cfg.Every = d
		return d, nil
	}
}
