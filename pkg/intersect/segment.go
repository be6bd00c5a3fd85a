package intersect

import (
	"fmt"
	"slices"
	"sort"
)

// Range is a labeled, possibly overlapping range over the domain.
type Range struct {
	ID    string  `json:"id" yaml:"id"`
	Begin float64 `json:"begin" yaml:"begin"`
	End   float64 `json:"end" yaml:"end"`
}

// Segment is a minimal sub-interval with the ids of the ranges covering it.
type Segment struct {
	Begin float64  `json:"begin" yaml:"begin"`
	End   float64  `json:"end" yaml:"end"`
	IDs   []string `json:"ids" yaml:"ids"`
}

func (r Segment) String() string {
	return fmt.Sprintf("[%g,%g)%v", r.Begin, r.End, r.IDs)
}

// SegmentByActiveRanges cuts [0, domainLength] at every range end point and
// returns, per sub-interval, the ranges active in it. Sub-intervals without
// active range are dropped. Ids keep the order of ranges.
//
// A zero-length range at x is active in the sub-interval beginning at x, or
// in the last sub-interval when x is the domain end.
func SegmentByActiveRanges(domainLength float64, ranges []Range) []Segment {
	if !(domainLength > 0) {
		return nil
	}
	clamped := make([]Range, 0, len(ranges))
	breakpoints := []float64{0, domainLength}
	for _, r := range ranges {
		if r.End < r.Begin || r.End < 0 || r.Begin > domainLength {
			continue
		}
		r.Begin = max(r.Begin, 0)
		r.End = min(r.End, domainLength)
		clamped = append(clamped, r)
		breakpoints = append(breakpoints, r.Begin, r.End)
	}
	sort.Float64s(breakpoints)
	breakpoints = slices.Compact(breakpoints)

	var segments []Segment
	last := len(breakpoints) - 2
	for i := 0; i <= last; i++ {
		curr, next := breakpoints[i], breakpoints[i+1]
		var ids []string
		for _, r := range clamped {
			if r.Begin == r.End {
				if r.Begin == curr || (i == last && r.Begin == next) {
					ids = append(ids, r.ID)
				}
				continue
			}
			if curr < r.End && next > r.Begin {
				ids = append(ids, r.ID)
			}
		}
		if len(ids) > 0 {
			segments = append(segments, Segment{Begin: curr, End: next, IDs: ids})
		}
	}
	return segments
}
