package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/henderiw/lmtable/pkg/session"
	"github.com/scott-cotton/cli"
)

func lmeditMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	env, err := loadEnv()
	if err != nil {
		return err
	}
	cfg.Env = env
	cfg.Log = newLogger(os.Stderr, cfg.Verbose)

	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func docArg(args []string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("%w: expected one document argument, - for stdin", cli.ErrUsage)
	}
	return args[0], nil
}

// newSession opens a session on the items of doc.
func (cfg *MainConfig) newSession(id string, doc *Document) (*session.Session[string], error) {
	zoom := cfg.Env.zoomConfig()
	return session.New(id, doc.Items, &session.Config[string]{
		Log:        cfg.Log,
		Zoom:       &zoom,
		EmptyValue: doc.Empty,
		Unit:       doc.Unit,
	})
}

// edit applies fn to the document in args and writes the edited document,
// or its diff with -diff.
func (cfg *MainConfig) edit(cc *cli.Context, args []string, fn func(*session.Session[string]) error) error {
	path, err := docArg(args)
	if err != nil {
		return err
	}
	doc, err := readDocument(path, cc.In)
	if err != nil {
		return err
	}
	s, err := cfg.newSession(path, doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := fn(s); err != nil {
		return err
	}
	after := *doc
	after.Items = s.Display()
	return cfg.writeDocument(cc.Out, doc, &after)
}

func (cfg *MainConfig) writeDocument(w io.Writer, before, after *Document) error {
	if !cfg.Diff {
		return encodeYAML(w, after)
	}
	from, err := yaml.Marshal(before)
	if err != nil {
		return err
	}
	to, err := yaml.Marshal(after)
	if err != nil {
		return err
	}
	useColor, err := cfg.useColor(w)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, lineDiff(string(from), string(to), NewColors(useColor)))
	return err
}
