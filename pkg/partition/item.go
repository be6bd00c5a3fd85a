package partition

import (
	"fmt"
	"sort"
	"strings"
)

// SegmentMinSize is the length of a segment created by CreateEmptySegmentAt.
const SegmentMinSize = 1

// Item is a piecewise-constant value over the half-open range [Begin, End).
type Item[T comparable] struct {
	Begin float64 `json:"begin" yaml:"begin"`
	End   float64 `json:"end" yaml:"end"`
	Value T       `json:"value" yaml:"value"`
	Unit  string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

func (r Item[T]) Length() float64 { return r.End - r.Begin }

func (r Item[T]) String() string {
	if r.Unit != "" {
		return fmt.Sprintf("[%g,%g)=%v%s", r.Begin, r.End, r.Value, r.Unit)
	}
	return fmt.Sprintf("[%g,%g)=%v", r.Begin, r.End, r.Value)
}

// Items is a partition of [0, TotalLength()] when it passes Validate:
// sorted, contiguous, starting at 0 and without empty items.
type Items[T comparable] []Item[T]

// TotalLength returns the end of the last item, 0 for an empty partition.
func (r Items[T]) TotalLength() float64 {
	if len(r) == 0 {
		return 0
	}
	return r[len(r)-1].End
}

// Clone returns a shallow copy, values are not deep copied.
func (r Items[T]) Clone() Items[T] {
	if r == nil {
		return nil
	}
	out := make(Items[T], len(r))
	copy(out, r)
	return out
}

func (r Items[T]) String() string {
	parts := make([]string, 0, len(r))
	for _, item := range r {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, " ")
}

// Validate checks the partition invariants.
func Validate[T comparable](items Items[T]) error {
	if len(items) == 0 {
		return ErrEmptyPartition
	}
	if items[0].Begin != 0 {
		return fmt.Errorf("%w: first item begins at %g, expected 0", ErrMalformedInput, items[0].Begin)
	}
	for i, item := range items {
		if !(item.End > item.Begin) {
			return fmt.Errorf("%w: item %d %s has a non-positive length", ErrMalformedInput, i, item)
		}
		if i > 0 && items[i-1].End != item.Begin {
			return fmt.Errorf("%w: item %d begins at %g but item %d ends at %g", ErrMalformedInput, i, item.Begin, i-1, items[i-1].End)
		}
	}
	return nil
}

// ItemAt returns the index of the item covering position. A position on a
// boundary belongs to the item that begins there, the domain end belongs to
// the last item.
func ItemAt[T comparable](items Items[T], position float64) (int, bool) {
	if len(items) == 0 || !(position >= items[0].Begin && position <= items.TotalLength()) {
		return -1, false
	}
	idx := sort.Search(len(items), func(i int) bool {
		return items[i].End > position
	})
	if idx == len(items) {
		return len(items) - 1, true
	}
	if items[idx].Begin > position {
		return -1, false
	}
	return idx, true
}

// Removed marks an index that no longer exists after an operation.
const Removed = -1

// IndexMapping maps the index of an item before an operation to its index
// after it, or to Removed.
type IndexMapping []int

func identityMapping(n int) IndexMapping {
	m := make(IndexMapping, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Get returns the new index of the item at old index i.
func (r IndexMapping) Get(i int) (int, bool) {
	if i < 0 || i >= len(r) {
		return Removed, false
	}
	return r[i], r[i] != Removed
}

// Result is the outcome of a mutating operation.
type Result[T comparable] struct {
	Items   Items[T]
	Mapping IndexMapping
}
