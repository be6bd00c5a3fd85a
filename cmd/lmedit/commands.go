package main

import (
	"fmt"

	"github.com/henderiw/lmtable/pkg/intersect"
	"github.com/henderiw/lmtable/pkg/lmtable"
	"github.com/henderiw/lmtable/pkg/partition"
	"github.com/henderiw/lmtable/pkg/session"
	"github.com/henderiw/lmtable/pkg/viewbox"
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "lmedit").
		WithSynopsis("lmedit [opts] command [opts] file").
		WithDescription("lmedit edits linear metadata: values partitioning a 1-D domain such as the distance along a track.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return lmeditMain(cfg, cc, args)
		}).
		WithSubs(
			FixCommand(cfg),
			SplitCommand(cfg),
			MergeCommand(cfg),
			ResizeCommand(cfg),
			InsertCommand(cfg),
			RemoveCommand(cfg),
			WarningsCommand(cfg),
			SegmentsCommand(cfg),
			ZoomCommand(cfg),
			PanCommand(cfg),
			CommitCommand(cfg),
			ReleaseCommand(cfg),
			EntriesCommand(cfg))
}

type FixConfig struct {
	Main  *MainConfig
	Merge bool `cli:"name=merge desc='merge adjacent items carrying the default value'"`

	Fix *cli.Command
}

func FixCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FixConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fix, "fix").
		WithSynopsis("fix [-merge] file").
		WithDescription("sort, clip and fill the items into a partition of [0, length]").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fix(cfg, cc, args)
		})
}

func fix(cfg *FixConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fix.Parse(cc, args)
	if err != nil {
		return err
	}
	path, err := docArg(args)
	if err != nil {
		return err
	}
	doc, err := readDocument(path, cc.In)
	if err != nil {
		return err
	}
	items, err := partition.Fix(doc.Items, doc.TotalLength(), doc.fixOptions(cfg.Merge)...)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	cfg.Main.Log.Debug("fixed", "document", path, "before", len(doc.Items), "after", len(items))
	after := *doc
	after.Items = items
	return cfg.Main.writeDocument(cc.Out, doc, &after)
}

type SplitConfig struct {
	Main *MainConfig
	At   float64

	Split *cli.Command
}

func SplitCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SplitConfig{Main: mainCfg}
	return cli.NewCommandAt(&cfg.Split, "split").
		WithSynopsis("split -at position file").
		WithDescription("split the item covering a position in two").
		WithOpts(&cli.Opt{
			Name:        "at",
			Description: "split position",
			Type:        cli.NamedFuncOpt(floatOpt(&cfg.At), "(position)"),
		}).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Split.Parse(cc, args)
			if err != nil {
				return err
			}
			return cfg.Main.edit(cc, args, func(s *session.Session[string]) error {
				return s.Split(cfg.At)
			})
		})
}

type MergeConfig struct {
	Main  *MainConfig
	Index int    `cli:"name=index aliases=i desc='index of the item to merge'"`
	Dir   string `cli:"name=dir desc='neighbor to merge into: left or right'"`

	Merge *cli.Command
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Merge, "merge").
		WithSynopsis("merge -index i -dir left|right file").
		WithDescription("merge an item into its neighbor, the neighbor's value is kept").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Merge.Parse(cc, args)
			if err != nil {
				return err
			}
			dir, err := partition.ParseDirection(cfg.Dir)
			if err != nil {
				return fmt.Errorf("%w: %w", cli.ErrUsage, err)
			}
			return cfg.Main.edit(cc, args, func(s *session.Session[string]) error {
				return s.Merge(cfg.Index, dir)
			})
		})
}

type ResizeConfig struct {
	Main    *MainConfig
	Index   int    `cli:"name=index aliases=i desc='index of the item to resize'"`
	Edge    string `cli:"name=edge desc='edge to move: begin or end'"`
	Preview bool   `cli:"name=preview desc='show the resize without validating the result'"`
	Gap     float64

	Resize *cli.Command
}

func ResizeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ResizeConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "gap",
		Description: "distance to move the edge by, negative moves towards the domain begin",
		Type:        cli.NamedFuncOpt(floatOpt(&cfg.Gap), "(distance)"),
	})
	return cli.NewCommandAt(&cfg.Resize, "resize").
		WithSynopsis("resize -index i -gap distance [-edge begin|end] [-preview] file").
		WithDescription("move an item edge, neighbors covered by the move are removed").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Resize.Parse(cc, args)
			if err != nil {
				return err
			}
			edge, err := partition.ParseEdge(firstNonEmpty(cfg.Edge, "end"))
			if err != nil {
				return fmt.Errorf("%w: %w", cli.ErrUsage, err)
			}
			return cfg.Main.edit(cc, args, func(s *session.Session[string]) error {
				if err := s.BeginDrag(cfg.Index, edge); err != nil {
					return err
				}
				if _, err := s.Drag(cfg.Gap); err != nil {
					return err
				}
				if cfg.Preview {
					return nil
				}
				return s.EndDrag()
			})
		})
}

type InsertConfig struct {
	Main *MainConfig
	At   float64

	Insert *cli.Command
}

func InsertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &InsertConfig{Main: mainCfg}
	return cli.NewCommandAt(&cfg.Insert, "insert").
		WithSynopsis("insert -at position file").
		WithDescription("insert an empty segment at a position").
		WithOpts(&cli.Opt{
			Name:        "at",
			Description: "segment position",
			Type:        cli.NamedFuncOpt(floatOpt(&cfg.At), "(position)"),
		}).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Insert.Parse(cc, args)
			if err != nil {
				return err
			}
			return cfg.Main.edit(cc, args, func(s *session.Session[string]) error {
				return s.Insert(cfg.At)
			})
		})
}

type RemoveConfig struct {
	Main  *MainConfig
	Index int `cli:"name=index aliases=i desc='index of the item to clear'"`

	Remove *cli.Command
}

func RemoveCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RemoveConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Remove, "remove").
		WithAliases("rm").
		WithSynopsis("remove -index i file").
		WithDescription("clear an item back to the empty value, merging it with empty neighbors").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Remove.Parse(cc, args)
			if err != nil {
				return err
			}
			return cfg.Main.edit(cc, args, func(s *session.Session[string]) error {
				return s.Remove(cfg.Index)
			})
		})
}

type WarningsConfig struct {
	Main   *MainConfig
	Strict bool `cli:"name=strict desc='exit with status 1 when there are warnings'"`

	Warnings *cli.Command
}

func WarningsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &WarningsConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Warnings, "warnings").
		WithAliases("w").
		WithSynopsis("warnings [-strict] file").
		WithDescription("check the items, as restrictions, against the reference items and the compatibility table").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return warnings(cfg, cc, args)
		})
}

func warnings(cfg *WarningsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Warnings.Parse(cc, args)
	if err != nil {
		return err
	}
	path, err := docArg(args)
	if err != nil {
		return err
	}
	doc, err := readDocument(path, cc.In)
	if err != nil {
		return err
	}
	s, err := session.New(path, doc.Controls(), &session.Config[intersect.Control[string]]{
		Log:        cfg.Main.Log,
		EmptyValue: intersect.Unrestricted[string](),
		Unit:       doc.Unit,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	found := session.Warnings(s, doc.Reference, doc.Table())
	useColor, err := cfg.Main.useColor(cc.Out)
	if err != nil {
		return err
	}
	if err := writeWarnings(cc.Out, found, NewColors(useColor)); err != nil {
		return err
	}
	if cfg.Strict && len(found) > 0 {
		return cli.ExitCodeErr(1)
	}
	return nil
}

type SegmentsConfig struct {
	Main *MainConfig

	Segments *cli.Command
}

func SegmentsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SegmentsConfig{Main: mainCfg}
	return cli.NewCommandAt(&cfg.Segments, "segments").
		WithSynopsis("segments file").
		WithDescription("group the document ranges into non-overlapping segments").
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Segments.Parse(cc, args)
			if err != nil {
				return err
			}
			path, err := docArg(args)
			if err != nil {
				return err
			}
			doc, err := readDocument(path, cc.In)
			if err != nil {
				return err
			}
			return encodeYAML(cc.Out, intersect.SegmentByActiveRanges(doc.TotalLength(), doc.Ranges))
		})
}

// windowOpts are the options describing the current viewbox.
type windowOpts struct {
	From, To *float64
}

func (r *windowOpts) opts() []*cli.Opt {
	return []*cli.Opt{
		{
			Name:        "from",
			Description: "start of the current window, the whole domain when absent",
			Type:        cli.NamedFuncOpt(optionalFloatOpt(&r.From), "(position)"),
		},
		{
			Name:        "to",
			Description: "end of the current window",
			Type:        cli.NamedFuncOpt(optionalFloatOpt(&r.To), "(position)"),
		},
	}
}

func (r *windowOpts) viewBox() (*viewbox.ViewBox, error) {
	switch {
	case r.From == nil && r.To == nil:
		return nil, nil
	case r.From == nil || r.To == nil:
		return nil, fmt.Errorf("%w: -from and -to go together", cli.ErrUsage)
	case !(*r.To > *r.From):
		return nil, fmt.Errorf("%w: empty window [%g,%g]", cli.ErrUsage, *r.From, *r.To)
	}
	return &viewbox.ViewBox{Start: *r.From, End: *r.To}, nil
}

type ZoomConfig struct {
	Main   *MainConfig
	Dir    string `cli:"name=dir desc='in or out'"`
	Steps  int    `cli:"name=steps desc='number of zoom steps, default 1'"`
	Focal  *float64
	Window windowOpts

	Zoom *cli.Command
}

func ZoomCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ZoomConfig{Main: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, cfg.Window.opts()...)
	opts = append(opts, &cli.Opt{
		Name:        "focal",
		Description: "position kept in place, the window center when absent",
		Type:        cli.NamedFuncOpt(optionalFloatOpt(&cfg.Focal), "(position)"),
	})
	return cli.NewCommandAt(&cfg.Zoom, "zoom").
		WithSynopsis("zoom -dir in|out [-focal position] [-from start -to end] [-steps n] file").
		WithDescription("compute the window after zooming, null is the whole domain").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return zoom(cfg, cc, args)
		})
}

func zoom(cfg *ZoomConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Zoom.Parse(cc, args)
	if err != nil {
		return err
	}
	dir, err := viewbox.ParseDirection(cfg.Dir)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	vb, err := cfg.Window.viewBox()
	if err != nil {
		return err
	}
	path, err := docArg(args)
	if err != nil {
		return err
	}
	doc, err := readDocument(path, cc.In)
	if err != nil {
		return err
	}
	zc := cfg.Main.Env.zoomConfig()
	for i := 0; i < max(cfg.Steps, 1); i++ {
		vb = zc.Zoom(doc, vb, dir, cfg.Focal)
	}
	return encodeYAML(cc.Out, vb)
}

type PanConfig struct {
	Main   *MainConfig
	Delta  float64
	Window windowOpts

	Pan *cli.Command
}

func PanCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PanConfig{Main: mainCfg}
	opts := append(cfg.Window.opts(), &cli.Opt{
		Name:        "delta",
		Description: "distance to shift the window by",
		Type:        cli.NamedFuncOpt(floatOpt(&cfg.Delta), "(distance)"),
	})
	return cli.NewCommandAt(&cfg.Pan, "pan").
		WithSynopsis("pan -delta distance -from start -to end file").
		WithDescription("shift the window, keeping it inside the domain").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			args, err := cfg.Pan.Parse(cc, args)
			if err != nil {
				return err
			}
			vb, err := cfg.Window.viewBox()
			if err != nil {
				return err
			}
			path, err := docArg(args)
			if err != nil {
				return err
			}
			doc, err := readDocument(path, cc.In)
			if err != nil {
				return err
			}
			return encodeYAML(cc.Out, viewbox.Translate(doc, vb, cfg.Delta))
		})
}

// storeOpts are the options shared by the commands working on a store.
type storeOpts struct {
	Path      string
	Tool      string
	Track     string
	Attribute string
}

func (r *storeOpts) opts() []*cli.Opt {
	return []*cli.Opt{
		{
			Name:        "store",
			Description: "store file holding the committed partitions",
			Type:        cli.NamedFuncOpt(stringOpt(&r.Path), "(file)"),
		},
		{
			Name:        "tool",
			Description: "tool label",
			Type:        cli.NamedFuncOpt(stringOpt(&r.Tool), "(name)"),
		},
		{
			Name:        "track",
			Description: "track label",
			Type:        cli.NamedFuncOpt(stringOpt(&r.Track), "(name)"),
		},
		{
			Name:        "attribute",
			Description: "attribute label",
			Type:        cli.NamedFuncOpt(stringOpt(&r.Attribute), "(name)"),
		},
	}
}

func (r *storeOpts) labels() map[string]string {
	return lmtable.Labels(r.Tool, r.Track, r.Attribute)
}

func (cfg *MainConfig) openStore(o *storeOpts) (*Store, lmtable.Table[string], error) {
	if o.Path == "" {
		return nil, nil, fmt.Errorf("%w: -store is required", cli.ErrUsage)
	}
	return openStore(o.Path, cfg.Env.StoreSize)
}

type CommitConfig struct {
	Main  *MainConfig
	ID    *int64
	Store storeOpts

	Commit *cli.Command
}

func CommitCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &CommitConfig{Main: mainCfg}
	opts := append(cfg.Store.opts(), &cli.Opt{
		Name:        "id",
		Description: "entry to write, the first free entry when absent",
		Type:        cli.NamedFuncOpt(optionalIntOpt(&cfg.ID), "(id)"),
	})
	return cli.NewCommandAt(&cfg.Commit, "commit").
		WithSynopsis("commit -store file [-id id] [-tool t -track t -attribute a] file").
		WithDescription("write the items of the document into a store entry and print its id").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return commit(cfg, cc, args)
		})
}

func commit(cfg *CommitConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Commit.Parse(cc, args)
	if err != nil {
		return err
	}
	path, err := docArg(args)
	if err != nil {
		return err
	}
	doc, err := readDocument(path, cc.In)
	if err != nil {
		return err
	}
	st, tbl, err := cfg.Main.openStore(&cfg.Store)
	if err != nil {
		return err
	}
	s, err := cfg.Main.newSession(path, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	id, err := commitSession(s, tbl, cfg.ID, cfg.Store.labels())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := st.write(cfg.Store.Path, tbl); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cc.Out, "%d\n", id)
	return err
}

// commitSession writes s into the entry id, or into the first free entry
// when id is nil.
func commitSession(s *session.Session[string], tbl lmtable.Table[string], id *int64, lbls map[string]string) (int64, error) {
	if id == nil {
		return s.CommitDynamic(tbl, lbls)
	}
	return *id, s.Commit(tbl, *id, lbls)
}

type ReleaseConfig struct {
	Main  *MainConfig
	ID    *int64
	Store storeOpts

	Release *cli.Command
}

func ReleaseCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ReleaseConfig{Main: mainCfg}
	return cli.NewCommandAt(&cfg.Release, "release").
		WithSynopsis("release -store file -id id").
		WithDescription("free a store entry").
		WithOpts(
			cfg.Store.opts()[0],
			&cli.Opt{
				Name:        "id",
				Description: "entry to free",
				Type:        cli.NamedFuncOpt(optionalIntOpt(&cfg.ID), "(id)"),
			}).
		WithRun(func(cc *cli.Context, args []string) error {
			if _, err := cfg.Release.Parse(cc, args); err != nil {
				return err
			}
			if cfg.ID == nil {
				return fmt.Errorf("%w: -id is required", cli.ErrUsage)
			}
			st, tbl, err := cfg.Main.openStore(&cfg.Store)
			if err != nil {
				return err
			}
			if err := releaseEntry(tbl, *cfg.ID); err != nil {
				return err
			}
			cfg.Main.Log.Debug("released", "store", cfg.Store.Path, "id", *cfg.ID)
			return st.write(cfg.Store.Path, tbl)
		})
}

func releaseEntry(tbl lmtable.Table[string], id int64) error {
	if !tbl.Has(id) {
		return fmt.Errorf("%w: %d", lmtable.ErrNotFound, id)
	}
	return tbl.Release(id)
}

type EntriesConfig struct {
	Main  *MainConfig
	Store storeOpts

	Entries *cli.Command
}

func EntriesCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EntriesConfig{Main: mainCfg}
	return cli.NewCommandAt(&cfg.Entries, "entries").
		WithAliases("ls").
		WithSynopsis("entries -store file [-tool t -track t -attribute a]").
		WithDescription("list the store entries carrying the given labels and the next free id").
		WithOpts(cfg.Store.opts()...).
		WithRun(func(cc *cli.Context, args []string) error {
			if _, err := cfg.Entries.Parse(cc, args); err != nil {
				return err
			}
			_, tbl, err := cfg.Main.openStore(&cfg.Store)
			if err != nil {
				return err
			}
			out, err := listEntries(tbl, cfg.Store.labels())
			if err != nil {
				return err
			}
			return encodeYAML(cc.Out, out)
		})
}
