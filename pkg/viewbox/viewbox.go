package viewbox

import (
	"fmt"
	"strings"

	"github.com/henderiw/lmtable/pkg/partition"
)

const (
	// DefaultZoomRatio zooms by 25% on each step.
	DefaultZoomRatio = 0.75
	// DefaultMinSize is the smallest visible width.
	DefaultMinSize = 10
)

// Domain is anything spanning [0, TotalLength()], partition.Items included.
type Domain interface {
	TotalLength() float64
}

// ViewBox is the visible window [Start, End]. A nil *ViewBox shows the whole
// domain.
type ViewBox struct {
	Start float64 `json:"start" yaml:"start"`
	End   float64 `json:"end" yaml:"end"`
}

func (r ViewBox) Width() float64 { return r.End - r.Start }

func (r ViewBox) String() string { return fmt.Sprintf("[%g,%g]", r.Start, r.End) }

type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "IN"
	case Out:
		return "OUT"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses "in" or "out", case insensitive.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(s) {
	case "IN":
		return In, nil
	case "OUT":
		return Out, nil
	}
	return 0, fmt.Errorf("invalid zoom direction %q, expected IN or OUT", s)
}

type Config struct {
	ZoomRatio float64
	MinSize   float64
}

func DefaultConfig() Config {
	return Config{ZoomRatio: DefaultZoomRatio, MinSize: DefaultMinSize}
}

// Zoom computes the window after one zoom step with the default config.
func Zoom(d Domain, vb *ViewBox, dir Direction, focal *float64) *ViewBox {
	return DefaultConfig().Zoom(d, vb, dir, focal)
}

// Zoom scales the width of vb around focal, or around its center when focal
// is nil. The window is shifted back inside the domain when it spills over
// an edge, and nil is returned once it covers the whole domain.
func (c Config) Zoom(d Domain, vb *ViewBox, dir Direction, focal *float64) *ViewBox {
	total := d.TotalLength()
	if !(total > 0) {
		return nil
	}
	current := ViewBox{Start: 0, End: total}
	if vb != nil {
		current = *vb
	}

	width := current.Width()
	if dir == In {
		width *= c.ZoomRatio
	} else {
		width *= 2 - c.ZoomRatio
	}
	if width < c.MinSize {
		width = c.MinSize
	}
	if width >= total {
		return nil
	}

	point := current.Start + current.Width()/2
	if focal != nil {
		point = min(max(*focal, 0), total)
	}
	begin := point - width/2
	end := point + width/2
	switch {
	case begin < 0:
		return &ViewBox{Start: 0, End: width}
	case end > total:
		return &ViewBox{Start: total - width, End: total}
	}
	return &ViewBox{Start: begin, End: end}
}

// Translate shifts vb by delta, keeping its width and staying inside the
// domain. A nil window is not zoomed and stays nil.
func Translate(d Domain, vb *ViewBox, delta float64) *ViewBox {
	if vb == nil {
		return nil
	}
	total := d.TotalLength()
	width := vb.Width()
	if width >= total {
		return nil
	}
	if delta < 0 {
		start := max(vb.Start+delta, 0)
		return &ViewBox{Start: start, End: start + width}
	}
	end := min(vb.End+delta, total)
	return &ViewBox{Start: end - width, End: end}
}

// Cropped is an item clipped to a window, with its index in the partition.
type Cropped[T comparable] struct {
	Index int
	Item  partition.Item[T]
}

// Crop returns the items touching vb, clipped to it.
func Crop[T comparable](items partition.Items[T], vb *ViewBox) []Cropped[T] {
	out := make([]Cropped[T], 0, len(items))
	for i, item := range items {
		if vb == nil {
			out = append(out, Cropped[T]{Index: i, Item: item})
			continue
		}
		if item.End <= vb.Start || item.Begin >= vb.End {
			continue
		}
		item.Begin = max(item.Begin, vb.Start)
		item.End = min(item.End, vb.End)
		out = append(out, Cropped[T]{Index: i, Item: item})
	}
	return out
}

// ForSelection pans vb so the selected item is visible.
func ForSelection[T comparable](items partition.Items[T], vb *ViewBox, selected int) *ViewBox {
	if vb == nil || selected < 0 || selected >= len(items) {
		return vb
	}
	item := items[selected]
	switch {
	case item.End <= vb.Start:
		return Translate(items, vb, item.Begin-vb.Start)
	case vb.End <= item.Begin:
		return Translate(items, vb, item.End-vb.End)
	}
	return vb
}
