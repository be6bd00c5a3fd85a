package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/henderiw/lmtable/pkg/viewbox"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	Verbose bool   `cli:"name=v aliases=verbose desc='debug logging on stderr'"`
	Diff    bool   `cli:"name=diff desc='print a diff of the document instead of the result'"`
	Color   string `cli:"name=color desc='colored output: always, never or auto'"`

	Env *Env
	Log *slog.Logger

	Main *cli.Command
}

// Env holds the defaults read from the environment and .env.
type Env struct {
	ZoomRatio   float64
	MinViewSize float64
	Color       string
	StoreSize   int64
}

const defaultStoreSize = 4096

func loadEnv() (*Env, error) {
	_ = godotenv.Load()

	env := &Env{
		ZoomRatio:   viewbox.DefaultZoomRatio,
		MinViewSize: viewbox.DefaultMinSize,
		Color:       firstNonEmpty(strings.TrimSpace(os.Getenv("LMEDIT_COLOR")), "auto"),
		StoreSize:   defaultStoreSize,
	}
	if v := strings.TrimSpace(os.Getenv("LMEDIT_ZOOM_RATIO")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || !(f > 0 && f < 1) {
			return nil, fmt.Errorf("LMEDIT_ZOOM_RATIO %q must be a number in (0, 1)", v)
		}
		env.ZoomRatio = f
	}
	if v := strings.TrimSpace(os.Getenv("LMEDIT_MIN_VIEW_SIZE")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, fmt.Errorf("LMEDIT_MIN_VIEW_SIZE %q must be a non-negative number", v)
		}
		env.MinViewSize = f
	}
	if v := strings.TrimSpace(os.Getenv("LMEDIT_STORE_SIZE")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("LMEDIT_STORE_SIZE %q must be a positive integer", v)
		}
		env.StoreSize = n
	}
	return env, nil
}

func (r *Env) zoomConfig() viewbox.Config {
	return viewbox.Config{ZoomRatio: r.ZoomRatio, MinSize: r.MinViewSize}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

// useColor resolves the -color option, falling back to LMEDIT_COLOR, for
// output written to w.
func (cfg *MainConfig) useColor(w io.Writer) (bool, error) {
	mode := firstNonEmpty(cfg.Color, cfg.Env.Color)
	switch strings.ToLower(mode) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()), nil
	}
	return false, fmt.Errorf("%w: invalid color mode %q, expected always, never or auto", cli.ErrUsage, mode)
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}

// floatOpt parses a float option into p.
func floatOpt(p *float64) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*p = f
		return f, nil
	})
}

func stringOpt(p *string) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		*p = v
		return v, nil
	})
}

// optionalIntOpt parses an integer option into *p, leaving it nil when the
// option is absent.
func optionalIntOpt(p **int64) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*p = &n
		return n, nil
	})
}

// optionalFloatOpt parses a float option into *p, leaving it nil when the
// option is absent.
func optionalFloatOpt(p **float64) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*p = &f
		return f, nil
	})
}
