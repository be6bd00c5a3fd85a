package intersect

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
	"github.com/henderiw/lmtable/pkg/partition"
)

type WarningKind int

const (
	// ModeNotSupported: a restriction applies on a reference value that
	// supports none.
	ModeNotSupported WarningKind = iota
	// MissingRestriction: the reference value requires a restriction and
	// there is none.
	MissingRestriction
	// InvalidCombination: the restriction code is not allowed on the
	// reference value.
	InvalidCombination
)

func (r WarningKind) String() string {
	switch r {
	case ModeNotSupported:
		return "ModeNotSupported"
	case MissingRestriction:
		return "MissingRestriction"
	case InvalidCombination:
		return "InvalidCombination"
	}
	return fmt.Sprintf("WarningKind(%d)", int(r))
}

// Warning is an incompatibility over [Begin, End). Control is set for
// InvalidCombination, Reference for ModeNotSupported and InvalidCombination.
type Warning[C, R comparable] struct {
	Kind      WarningKind
	Begin     float64
	End       float64
	Control   C
	Reference R
}

func (r Warning[C, R]) String() string {
	switch r.Kind {
	case ModeNotSupported:
		return fmt.Sprintf("[%g,%g) %s: %v", r.Begin, r.End, r.Kind, r.Reference)
	case InvalidCombination:
		return fmt.Sprintf("[%g,%g) %s: %v on %v", r.Begin, r.End, r.Kind, r.Control, r.Reference)
	}
	return fmt.Sprintf("[%g,%g) %s", r.Begin, r.End, r.Kind)
}

// ClassifyOverlaps checks every overlap between a control and a reference
// range against table and returns one warning per incompatible overlap,
// sorted by position. Overlaps are never merged, not even across adjacent
// reference ranges with the same value.
func ClassifyOverlaps[C, R comparable](control partition.Items[Control[C]], reference partition.Items[R], table Table[C, R]) []Warning[C, R] {
	tree := &interval.Tree{}
	for i, ref := range reference {
		if !(ref.End > ref.Begin) {
			continue
		}
		if err := tree.Insert(refRange[R]{id: uintptr(i), item: ref}, false); err != nil {
			continue
		}
	}

	var warnings []Warning[C, R]
	for _, ctl := range control {
		if !(ctl.End > ctl.Begin) {
			continue
		}
		hits := tree.Get(span{begin: position(ctl.Begin), end: position(ctl.End)})
		sort.Slice(hits, func(i, j int) bool {
			return hits[i].(refRange[R]).item.Begin < hits[j].(refRange[R]).item.Begin
		})
		for _, hit := range hits {
			ref := hit.(refRange[R]).item
			w, ok := classify(ctl.Value, ref.Value, table)
			if !ok {
				continue
			}
			w.Begin = max(ctl.Begin, ref.Begin)
			w.End = min(ctl.End, ref.End)
			warnings = append(warnings, w)
		}
	}
	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Begin < warnings[j].Begin
	})
	return warnings
}

func classify[C, R comparable](ctl Control[C], ref R, table Table[C, R]) (Warning[C, R], bool) {
	allowed, ok := table[ref]
	code, restricted := ctl.Code()
	switch {
	case !ok && restricted:
		return Warning[C, R]{Kind: ModeNotSupported, Reference: ref}, true
	case !restricted && allowed.Len() > 0:
		return Warning[C, R]{Kind: MissingRestriction}, true
	case restricted && !allowed.Has(code):
		return Warning[C, R]{Kind: InvalidCombination, Control: code, Reference: ref}, true
	}
	return Warning[C, R]{}, false
}

// position is a domain position usable as interval tree key.
type position float64

func (p position) Compare(c interval.Comparable) int {
	q := c.(position)
	switch {
	case p < q:
		return -1
	case p > q:
		return 1
	}
	return 0
}

// span is a half-open query range.
type span struct {
	begin, end position
}

func (s span) Overlap(b interval.Range) bool {
	return s.begin < b.End().(position) && s.end > b.Start().(position)
}

// refRange stores a reference item in the interval tree.
type refRange[R comparable] struct {
	id   uintptr
	item partition.Item[R]
}

func (r refRange[R]) Overlap(b interval.Range) bool {
	return position(r.item.Begin) < b.End().(position) && position(r.item.End) > b.Start().(position)
}

func (r refRange[R]) ID() uintptr { return r.id }

func (r refRange[R]) Start() interval.Comparable { return position(r.item.Begin) }

func (r refRange[R]) End() interval.Comparable { return position(r.item.End) }

func (r refRange[R]) NewMutable() interval.Mutable {
	return &mutable{start: position(r.item.Begin), end: position(r.item.End)}
}

type mutable struct {
	start, end interval.Comparable
}

func (m *mutable) Start() interval.Comparable     { return m.start }
func (m *mutable) End() interval.Comparable       { return m.end }
func (m *mutable) SetStart(c interval.Comparable) { m.start = c }
func (m *mutable) SetEnd(c interval.Comparable)   { m.end = c }
