package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/henderiw/lmtable/pkg/intersect"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Colors struct {
	Insert  func(string, ...any) string
	Delete  func(string, ...any) string
	Error   func(string, ...any) string
	Warning func(string, ...any) string
	Range   func(string, ...any) string
}

func NewColors(enabled bool) *Colors {
	if !enabled {
		return &Colors{
			Insert:  fmt.Sprintf,
			Delete:  fmt.Sprintf,
			Error:   fmt.Sprintf,
			Warning: fmt.Sprintf,
			Range:   fmt.Sprintf,
		}
	}
	return &Colors{
		Insert:  colorFunc(color.New(color.FgGreen)),
		Delete:  colorFunc(color.New(color.FgRed)),
		Error:   colorFunc(color.New(color.FgRed, color.Bold)),
		Warning: colorFunc(color.New(color.FgYellow)),
		Range:   colorFunc(color.RGB(128, 216, 236)),
	}
}

// colorFunc colors regardless of the terminal detection of fatih/color, the
// caller decides.
func colorFunc(c *color.Color) func(string, ...any) string {
	c.EnableColor()
	return c.SprintfFunc()
}

// lineDiff renders a line based diff of from and to.
func lineDiff(from, to string, colors *Colors) string {
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var sb strings.Builder
	for _, diff := range diffs {
		text := strings.TrimSuffix(diff.Text, "\n")
		if text == "" {
			continue
		}
		for _, line := range strings.Split(text, "\n") {
			switch diff.Type {
			case diffpatch.DiffInsert:
				sb.WriteString(colors.Insert("+%s", line))
			case diffpatch.DiffDelete:
				sb.WriteString(colors.Delete("-%s", line))
			default:
				sb.WriteString(" " + line)
			}
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func writeWarnings(w io.Writer, warnings []intersect.Warning[string, string], colors *Colors) error {
	for _, warning := range warnings {
		kind := colors.Error
		if warning.Kind == intersect.MissingRestriction {
			kind = colors.Warning
		}
		line := colors.Range("[%g,%g)", warning.Begin, warning.End) + " " + kind("%s", warning.Kind)
		switch warning.Kind {
		case intersect.ModeNotSupported:
			line += fmt.Sprintf(": %s", warning.Reference)
		case intersect.InvalidCombination:
			line += fmt.Sprintf(": %s on %s", warning.Control, warning.Reference)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
