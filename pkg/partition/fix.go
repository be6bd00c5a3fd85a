package partition

import (
	"fmt"
	"sort"
)

type fixOptions[T comparable] struct {
	defaultValue  T
	hasDefault    bool
	unit          string
	mergeDefaults bool
}

type FixOption[T comparable] func(*fixOptions[T])

// WithDefaultValue fills gaps with items carrying v.
func WithDefaultValue[T comparable](v T) FixOption[T] {
	return func(o *fixOptions[T]) {
		o.defaultValue = v
		o.hasDefault = true
	}
}

// WithDefaultUnit sets the unit of the items created to fill gaps.
func WithDefaultUnit[T comparable](unit string) FixOption[T] {
	return func(o *fixOptions[T]) {
		o.unit = unit
	}
}

// WithMergeDefaults merges adjacent items that both carry the default value
// and the same unit.
func WithMergeDefaults[T comparable]() FixOption[T] {
	return func(o *fixOptions[T]) {
		o.mergeDefaults = true
	}
}

// Fix repairs raw items into a partition of [0, totalLength]:
//   - items are sorted by begin
//   - items beginning at or after totalLength are dropped, ends are clipped
//   - overlaps are trimmed in favor of the earlier item
//   - gaps are filled with the default value
//   - without default, the first and last items are stretched to the domain
//     edges and an inner gap is an error
//   - items of non-positive length are dropped
func Fix[T comparable](items Items[T], totalLength float64, opts ...FixOption[T]) (Items[T], error) {
	o := &fixOptions[T]{}
	for _, opt := range opts {
		opt(o)
	}
	if !(totalLength > 0) {
		return nil, fmt.Errorf("%w: total length %g must be positive", ErrOutOfDomain, totalLength)
	}
	filler := func(begin, end float64) (Item[T], error) {
		if !o.hasDefault {
			return Item[T]{}, fmt.Errorf("%w: gap [%g,%g) and no default value", ErrMalformedInput, begin, end)
		}
		return Item[T]{Begin: begin, End: end, Value: o.defaultValue, Unit: o.unit}, nil
	}

	if len(items) == 0 {
		if !o.hasDefault {
			return nil, ErrEmptyPartition
		}
		item, _ := filler(0, totalLength)
		return Items[T]{item}, nil
	}

	sorted := items.Clone()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Begin < sorted[j].Begin
	})

	out := make(Items[T], 0, len(sorted)+2)
	cursor := 0.0
	for _, item := range sorted {
		if item.Begin >= totalLength {
			continue
		}
		if item.End > totalLength {
			item.End = totalLength
		}
		if item.Begin < cursor {
			item.Begin = cursor
		}
		if !(item.End > item.Begin) {
			continue
		}
		if item.Begin > cursor && len(out) == 0 && !o.hasDefault {
			item.Begin = 0
		}
		if item.Begin > cursor {
			gap, err := filler(cursor, item.Begin)
			if err != nil {
				return nil, err
			}
			out = append(out, gap)
		}
		out = append(out, item)
		cursor = item.End
	}
	if len(out) == 0 && !o.hasDefault {
		return nil, ErrEmptyPartition
	}
	if cursor < totalLength && !o.hasDefault {
		out[len(out)-1].End = totalLength
		cursor = totalLength
	}
	if cursor < totalLength {
		gap, err := filler(cursor, totalLength)
		if err != nil {
			return nil, err
		}
		out = append(out, gap)
	}

	if o.mergeDefaults && o.hasDefault {
		out = mergeDefaults(out, o.defaultValue)
	}
	return out, nil
}

func mergeDefaults[T comparable](items Items[T], v T) Items[T] {
	out := make(Items[T], 0, len(items))
	for _, item := range items {
		if n := len(out); n > 0 {
			prev := &out[n-1]
			if prev.Value == v && item.Value == v && prev.Unit == item.Unit {
				prev.End = item.End
				continue
			}
		}
		out = append(out, item)
	}
	return out
}
