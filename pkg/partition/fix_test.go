package partition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestFix(t *testing.T) {
	cases := map[string]struct {
		items         Items[string]
		totalLength   float64
		opts          []FixOption[string]
		expectedItems Items[string]
		expectedErr   error
	}{
		"AlreadyValid": {
			items:         threeItems,
			totalLength:   300,
			expectedItems: threeItems,
		},
		"EmptyWithDefault": {
			totalLength:   50,
			opts:          []FixOption[string]{WithDefaultValue("none"), WithDefaultUnit[string]("V")},
			expectedItems: Items[string]{{Begin: 0, End: 50, Value: "none", Unit: "V"}},
		},
		"EmptyWithoutDefault": {
			totalLength: 50,
			expectedErr: ErrEmptyPartition,
		},
		"Unsorted": {
			items: Items[string]{
				{Begin: 250, End: 300, Value: "c"},
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 100, End: 250, Value: "b"},
			},
			totalLength:   300,
			expectedItems: threeItems,
		},
		"GapsFilled": {
			items: Items[string]{
				{Begin: 10, End: 100, Value: "a"},
				{Begin: 120, End: 250, Value: "b"},
			},
			totalLength: 300,
			opts:        []FixOption[string]{WithDefaultValue("none")},
			expectedItems: Items[string]{
				{Begin: 0, End: 10, Value: "none"},
				{Begin: 10, End: 100, Value: "a"},
				{Begin: 100, End: 120, Value: "none"},
				{Begin: 120, End: 250, Value: "b"},
				{Begin: 250, End: 300, Value: "none"},
			},
		},
		"GapWithoutDefault": {
			items: Items[string]{
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 120, End: 300, Value: "b"},
			},
			totalLength: 300,
			expectedErr: ErrMalformedInput,
		},
		"EdgesStretchedWithoutDefault": {
			items: Items[string]{
				{Begin: 5, End: 60, Value: "a"},
				{Begin: 60, End: 90, Value: "b"},
			},
			totalLength: 100,
			expectedItems: Items[string]{
				{Begin: 0, End: 60, Value: "a"},
				{Begin: 60, End: 100, Value: "b"},
			},
		},
		"AllDroppedWithoutDefault": {
			items:       Items[string]{{Begin: 400, End: 500, Value: "beyond"}},
			totalLength: 300,
			expectedErr: ErrEmptyPartition,
		},
		"ClipAndDrop": {
			items: Items[string]{
				{Begin: -20, End: 100, Value: "a"},
				{Begin: 100, End: 100, Value: "empty"},
				{Begin: 100, End: 350, Value: "b"},
				{Begin: 400, End: 500, Value: "beyond"},
			},
			totalLength: 300,
			expectedItems: Items[string]{
				{Begin: 0, End: 100, Value: "a"},
				{Begin: 100, End: 300, Value: "b"},
			},
		},
		"Overlap": {
			items: Items[string]{
				{Begin: 0, End: 120, Value: "a"},
				{Begin: 100, End: 250, Value: "b"},
				{Begin: 110, End: 200, Value: "swallowed"},
				{Begin: 250, End: 300, Value: "c"},
			},
			totalLength: 300,
			expectedItems: Items[string]{
				{Begin: 0, End: 120, Value: "a"},
				{Begin: 120, End: 250, Value: "b"},
				{Begin: 250, End: 300, Value: "c"},
			},
		},
		"MergeDefaults": {
			items: Items[string]{
				{Begin: 0, End: 10, Value: "none"},
				{Begin: 20, End: 30, Value: "a"},
				{Begin: 40, End: 50, Value: "none"},
			},
			totalLength: 60,
			opts:        []FixOption[string]{WithDefaultValue("none"), WithMergeDefaults[string]()},
			expectedItems: Items[string]{
				{Begin: 0, End: 20, Value: "none"},
				{Begin: 20, End: 30, Value: "a"},
				{Begin: 30, End: 60, Value: "none"},
			},
		},
		"NonPositiveLength": {
			items:       threeItems,
			totalLength: 0,
			expectedErr: ErrOutOfDomain,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			items, err := Fix(tc.items, tc.totalLength, tc.opts...)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}
			assert.NoError(t, err)
			assertPartition(t, items, tc.totalLength)
			if diff := cmp.Diff(tc.expectedItems, items); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestFixDoesNotMutateInput(t *testing.T) {
	input := Items[string]{
		{Begin: 250, End: 300, Value: "c"},
		{Begin: 0, End: 100, Value: "a"},
		{Begin: 100, End: 250, Value: "b"},
	}
	orig := input.Clone()
	_, err := Fix(input, 300)
	assert.NoError(t, err)
	if diff := cmp.Diff(orig, input); diff != "" {
		t.Errorf("input mutated -want, +got:\n%s", diff)
	}
}
