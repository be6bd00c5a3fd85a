package partition

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tj/assert"
)

func TestResize(t *testing.T) {
	cases := map[string]struct {
		index           int
		gap             float64
		edge            Edge
		expectedItems   Items[string]
		expectedMapping IndexMapping
		expectedErr     error
	}{
		"GrowEnd": {
			index: 1,
			gap:   20,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 100, End: 270, Value: "b"},
				{Begin: 270, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, 1, 2},
		},
		"ShrinkEnd": {
			index: 1,
			gap:   -50,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 100, End: 200, Value: "b"},
				{Begin: 200, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, 1, 2},
		},
		"GrowBegin": {
			index: 1,
			gap:   -30,
			edge:  EdgeBegin,
			expectedItems: Items[string]{
				{Begin: 0, End: 70, Value: "a"},
				{Begin: 70, End: 250, Value: "b"},
				{Begin: 250, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, 1, 2},
		},
		"NeighborRemoved": {
			index: 0,
			gap:   160,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 260, Value: "a"},
				{Begin: 260, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, Removed, 1},
		},
		"CascadeToDomainEnd": {
			index: 0,
			gap:   200,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 300, Value: "a"},
			},
			expectedMapping: IndexMapping{0, Removed, Removed},
		},
		"ItemShrunkToZero": {
			index: 1,
			gap:   -150,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 100, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, Removed, 1},
		},
		"CascadeLeft": {
			index: 1,
			gap:   -180,
			edge:  EdgeEnd,
			expectedItems: Items[string]{
				{Begin: 0, End: 70, Value: "a"},
				{Begin: 70, End: 300, Value: "c"},
			},
			expectedMapping: IndexMapping{0, Removed, 1},
		},
		"ZeroGapOnDomainEdge": {
			index:           0,
			gap:             0,
			edge:            EdgeBegin,
			expectedItems:   threeItems,
			expectedMapping: IndexMapping{0, 1, 2},
		},
		"NaNGap": {
			index:       1,
			gap:         math.NaN(),
			edge:        EdgeEnd,
			expectedErr: ErrOutOfDomain,
		},
		"DomainBegin": {
			index:       0,
			gap:         10,
			edge:        EdgeBegin,
			expectedErr: ErrOutOfDomain,
		},
		"DomainEnd": {
			index:       2,
			gap:         -10,
			edge:        EdgeEnd,
			expectedErr: ErrOutOfDomain,
		},
		"PastDomainEnd": {
			index:       0,
			gap:         400,
			edge:        EdgeEnd,
			expectedErr: ErrOutOfDomain,
		},
		"BadIndex": {
			index:       5,
			gap:         1,
			edge:        EdgeEnd,
			expectedErr: ErrInvalidIndex,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			preview, err := PreviewResize(threeItems, tc.index, tc.gap, tc.edge)
			commit, commitErr := CommitResize(threeItems, tc.index, tc.gap, tc.edge)
			if tc.expectedErr != nil {
				assert.True(t, errors.Is(err, tc.expectedErr))
				assert.True(t, errors.Is(commitErr, tc.expectedErr))
				return
			}
			assert.NoError(t, err)
			assert.NoError(t, commitErr)
			if diff := cmp.Diff(tc.expectedItems, preview.Items); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
			if diff := cmp.Diff(tc.expectedMapping, preview.Mapping); diff != "" {
				t.Errorf("%s: mapping -want, +got:\n%s", name, diff)
			}
			if diff := cmp.Diff(preview, commit); diff != "" {
				t.Errorf("%s: preview and commit differ -preview, +commit:\n%s", name, diff)
			}
		})
	}
}

func TestResizeRemovedIndexMapping(t *testing.T) {
	res, err := CommitResize(threeItems, 0, 160, EdgeEnd)
	assert.NoError(t, err)
	k := 1
	idx, ok := res.Mapping.Get(k)
	assert.False(t, ok)
	assert.Equal(t, Removed, idx)
	for j := 0; j < k; j++ {
		assert.Equal(t, j, res.Mapping[j])
	}
}

func TestPreviewIsRepeatable(t *testing.T) {
	input := threeItems.Clone()
	first, err := PreviewResize(input, 1, 42, EdgeEnd)
	assert.NoError(t, err)
	second, err := PreviewResize(input, 1, 42, EdgeEnd)
	assert.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("preview not repeatable:\n%s", diff)
	}
	if diff := cmp.Diff(threeItems, input); diff != "" {
		t.Errorf("input mutated -want, +got:\n%s", diff)
	}
}

// Random edits must always leave a partition of the same total length.
func TestEditSequencePreservesInvariants(t *testing.T) {
	const total = 1000
	rnd := rand.New(rand.NewSource(7))
	items, err := Fix(Items[int]{}, total, WithDefaultValue(0))
	assert.NoError(t, err)

	for step := 0; step < 500; step++ {
		var res *Result[int]
		switch rnd.Intn(5) {
		case 0:
			res, err = SplitAt(items, rnd.Float64()*total)
		case 1:
			res, err = MergeIn(items, rnd.Intn(len(items)), Direction(rnd.Intn(2)))
		case 2:
			gap := (rnd.Float64() - 0.5) * 400
			res, err = CommitResize(items, rnd.Intn(len(items)), gap, Edge(rnd.Intn(2)))
		case 3:
			res, err = CreateEmptySegmentAt(items, rnd.Float64()*total, step, "")
		case 4:
			res, err = RemoveSegment(items, rnd.Intn(len(items)), 0, "")
		}
		if err != nil {
			continue
		}
		if len(res.Mapping) != len(items) {
			t.Fatalf("step %d: mapping has %d entries for %d items", step, len(res.Mapping), len(items))
		}
		for _, idx := range res.Mapping {
			if idx != Removed && (idx < 0 || idx >= len(res.Items)) {
				t.Fatalf("step %d: mapping points outside the result: %v", step, res.Mapping)
			}
		}
		items = res.Items
		if err := Validate(items); err != nil {
			t.Fatalf("step %d: %v", step, err)
		}
		assert.Equal(t, float64(total), items.TotalLength())
	}
}
