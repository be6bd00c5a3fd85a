package partition

import "fmt"

// Edge selects which boundary of an item a resize moves.
type Edge int

const (
	EdgeBegin Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	switch e {
	case EdgeBegin:
		return "begin"
	case EdgeEnd:
		return "end"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}

// ParseEdge parses "begin" or "end".
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "begin":
		return EdgeBegin, nil
	case "end":
		return EdgeEnd, nil
	}
	return 0, fmt.Errorf("invalid edge %q, expected begin or end", s)
}

// PreviewResize computes the partition obtained by moving the given edge of
// the item at index by gap. It is meant to be called on every pointer move of
// a drag: the result is a candidate that callers discard or replace.
func PreviewResize[T comparable](items Items[T], index int, gap float64, edge Edge) (*Result[T], error) {
	return resize(items, index, gap, edge)
}

// CommitResize is the final call of a drag. It computes the same result as
// PreviewResize and checks that the outcome holds the partition invariants
// over the same total length.
func CommitResize[T comparable](items Items[T], index int, gap float64, edge Edge) (*Result[T], error) {
	res, err := resize(items, index, gap, edge)
	if err != nil {
		return nil, err
	}
	if err := Validate(res.Items); err != nil {
		return nil, err
	}
	if res.Items.TotalLength() != items.TotalLength() {
		return nil, fmt.Errorf("%w: resize changed the total length from %g to %g", ErrMalformedInput, items.TotalLength(), res.Items.TotalLength())
	}
	return res, nil
}

// resize moves the boundary between items[j] and items[j+1]. Items on the
// shrinking side that reach a non-positive length are removed in cascade and
// the first surviving one absorbs the remaining gap.
func resize[T comparable](items Items[T], index int, gap float64, edge Edge) (*Result[T], error) {
	if err := Validate(items); err != nil {
		return nil, err
	}
	if err := validateIndex(items, index); err != nil {
		return nil, err
	}
	mapping := identityMapping(len(items))
	if gap == 0 {
		return &Result[T]{Items: items.Clone(), Mapping: mapping}, nil
	}

	var j int
	switch edge {
	case EdgeBegin:
		j = index - 1
	case EdgeEnd:
		j = index
	default:
		return nil, fmt.Errorf("invalid resize %s", edge)
	}
	if j < 0 || j >= len(items)-1 {
		return nil, fmt.Errorf("%w: the %s of item %d is a domain edge", ErrOutOfDomain, edge, index)
	}
	total := items.TotalLength()
	pos := items[j].End + gap
	if !(pos >= 0 && pos <= total) {
		return nil, fmt.Errorf("%w: boundary %g moved to %g, outside [0, %g]", ErrOutOfDomain, items[j].End, pos, total)
	}

	out := make(Items[T], 0, len(items))
	if gap > 0 {
		out = append(out, items[:j+1]...)
		out[j].End = pos
		for i := j + 1; i < len(items); i++ {
			item := items[i]
			if item.End <= pos {
				mapping[i] = Removed
				continue
			}
			if item.Begin < pos {
				item.Begin = pos
			}
			mapping[i] = len(out)
			out = append(out, item)
		}
		return &Result[T]{Items: out, Mapping: mapping}, nil
	}

	for i := 0; i <= j; i++ {
		item := items[i]
		if item.Begin >= pos {
			mapping[i] = Removed
			continue
		}
		if item.End > pos {
			item.End = pos
		}
		mapping[i] = len(out)
		out = append(out, item)
	}
	right := items[j+1]
	right.Begin = pos
	mapping[j+1] = len(out)
	out = append(out, right)
	for i := j + 2; i < len(items); i++ {
		mapping[i] = len(out)
		out = append(out, items[i])
	}
	return &Result[T]{Items: out, Mapping: mapping}, nil
}
