package partition

import "fmt"

type Direction int

const (
	Left Direction = iota
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// ParseDirection parses "left" or "right".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("invalid direction %q, expected left or right", s)
}

func validateIndex[T comparable](items Items[T], index int) error {
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %d not in [0, %d)", ErrInvalidIndex, index, len(items))
	}
	return nil
}

// SplitAt splits the item covering point in two items carrying the same
// value. Splitting on an existing boundary is rejected.
func SplitAt[T comparable](items Items[T], point float64) (*Result[T], error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrOutOfDomain, ErrEmptyPartition)
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	total := items.TotalLength()
	if !(point > 0 && point < total) {
		return nil, fmt.Errorf("%w: split point %g not in (0, %g)", ErrOutOfDomain, point, total)
	}
	idx, _ := ItemAt(items, point)
	if items[idx].Begin == point {
		return nil, fmt.Errorf("%w: split point %g is already a boundary", ErrOutOfDomain, point)
	}

	left, right := items[idx], items[idx]
	left.End = point
	right.Begin = point

	out := make(Items[T], 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, left, right)
	out = append(out, items[idx+1:]...)

	mapping := identityMapping(len(items))
	for i := idx + 1; i < len(items); i++ {
		mapping[i] = i + 1
	}
	return &Result[T]{Items: out, Mapping: mapping}, nil
}

// MergeIn merges the item at index into its neighbor in the given
// direction. The merged item keeps the neighbor's value and unit, the item at
// index is reported as Removed in the mapping.
func MergeIn[T comparable](items Items[T], index int, dir Direction) (*Result[T], error) {
	if err := Validate(items); err != nil {
		return nil, err
	}
	if err := validateIndex(items, index); err != nil {
		return nil, err
	}
	var lo, hi, into int
	switch dir {
	case Left:
		if index == 0 {
			return nil, fmt.Errorf("%w: item %d has no left neighbor", ErrInvalidIndex, index)
		}
		lo, hi, into = index-1, index, index-1
	case Right:
		if index == len(items)-1 {
			return nil, fmt.Errorf("%w: item %d has no right neighbor", ErrInvalidIndex, index)
		}
		lo, hi, into = index, index+1, index+1
	default:
		return nil, fmt.Errorf("invalid merge %s", dir)
	}

	merged := items[into]
	merged.Begin = items[lo].Begin
	merged.End = items[hi].End

	out := make(Items[T], 0, len(items)-1)
	out = append(out, items[:lo]...)
	out = append(out, merged)
	out = append(out, items[hi+1:]...)

	mapping := identityMapping(len(items))
	mapping[into] = lo
	mapping[index] = Removed
	for i := hi + 1; i < len(items); i++ {
		mapping[i] = i - 1
	}
	return &Result[T]{Items: out, Mapping: mapping}, nil
}

// CreateEmptySegmentAt inserts a segment of SegmentMinSize carrying
// defaultValue at distance, splitting the item that covers it. The new
// segment never crosses the end of the covering item.
func CreateEmptySegmentAt[T comparable](items Items[T], distance float64, defaultValue T, unit string) (*Result[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyPartition
	}
	if err := Validate(items); err != nil {
		return nil, err
	}
	total := items.TotalLength()
	if !(distance > 0 && distance < total) {
		return nil, fmt.Errorf("%w: distance %g not in (0, %g)", ErrOutOfDomain, distance, total)
	}
	idx, _ := ItemAt(items, distance)
	covering := items[idx]

	parts := make(Items[T], 0, 3)
	if covering.Begin < distance {
		left := covering
		left.End = distance
		parts = append(parts, left)
	}
	segment := Item[T]{
		Begin: distance,
		End:   min(distance+SegmentMinSize, covering.End),
		Value: defaultValue,
		Unit:  unit,
	}
	parts = append(parts, segment)
	if segment.End < covering.End {
		right := covering
		right.Begin = segment.End
		parts = append(parts, right)
	}

	out := make(Items[T], 0, len(items)+len(parts)-1)
	out = append(out, items[:idx]...)
	out = append(out, parts...)
	out = append(out, items[idx+1:]...)

	mapping := identityMapping(len(items))
	switch {
	case covering.Begin < distance:
		mapping[idx] = idx
	case segment.End < covering.End:
		mapping[idx] = idx + 1
	default:
		mapping[idx] = Removed
	}
	for i := idx + 1; i < len(items); i++ {
		mapping[i] = i + len(parts) - 1
	}
	return &Result[T]{Items: out, Mapping: mapping}, nil
}

// RemoveSegment clears the item at index back to emptyValue. An empty
// neighbor absorbs it, and when both neighbors are empty the three items
// become one. The merged item keeps the index and the unit of its leftmost
// empty part; unit only applies to an item cleared in place.
func RemoveSegment[T comparable](items Items[T], index int, emptyValue T, unit string) (*Result[T], error) {
	if err := Validate(items); err != nil {
		return nil, err
	}
	if err := validateIndex(items, index); err != nil {
		return nil, err
	}
	lo, hi := index, index
	if index > 0 && items[index-1].Value == emptyValue {
		lo = index - 1
	}
	if index < len(items)-1 && items[index+1].Value == emptyValue {
		hi = index + 1
	}

	switch {
	case lo < index:
		unit = items[lo].Unit
	case hi > index:
		unit = items[hi].Unit
	}
	cleared := Item[T]{
		Begin: items[lo].Begin,
		End:   items[hi].End,
		Value: emptyValue,
		Unit:  unit,
	}
	removed := hi - lo

	out := make(Items[T], 0, len(items)-removed)
	out = append(out, items[:lo]...)
	out = append(out, cleared)
	out = append(out, items[hi+1:]...)

	mapping := identityMapping(len(items))
	for i := lo + 1; i <= hi; i++ {
		mapping[i] = Removed
	}
	for i := hi + 1; i < len(items); i++ {
		mapping[i] = i - removed
	}
	return &Result[T]{Items: out, Mapping: mapping}, nil
}
