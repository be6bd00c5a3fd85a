package session

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/henderiw/lmtable/pkg/intersect"
	"github.com/henderiw/lmtable/pkg/lmtable"
	"github.com/henderiw/lmtable/pkg/partition"
	"github.com/henderiw/lmtable/pkg/viewbox"
	"github.com/tj/assert"
)

var threeItems = partition.Items[string]{
	{Begin: 0, End: 100, Value: "a"},
	{Begin: 100, End: 250, Value: "b"},
	{Begin: 250, End: 300, Value: "c"},
}

func newSession(t *testing.T) *Session[string] {
	t.Helper()
	s, err := New("test", threeItems, &Config[string]{
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		EmptyValue: "",
	})
	assert.NoError(t, err)
	return s
}

func selected[T comparable](s *Session[T]) int {
	index, _ := s.Selected()
	return index
}

func TestNew(t *testing.T) {
	_, err := New[string]("bad", nil, nil)
	assert.True(t, errors.Is(err, partition.ErrEmptyPartition))

	s, err := New("ok", threeItems, nil)
	assert.NoError(t, err)
	_, ok := s.Selected()
	assert.False(t, ok)
	assert.True(t, s.ViewBox() == nil)
}

func TestSelectionFollowsEdits(t *testing.T) {
	cases := map[string]struct {
		selected int
		edit     func(s *Session[string]) error
		expected int
	}{
		"SplitBefore": {
			selected: 2,
			edit:     func(s *Session[string]) error { return s.Split(50) },
			expected: 3,
		},
		"SplitSelected": {
			selected: 1,
			edit:     func(s *Session[string]) error { return s.Split(200) },
			expected: 1,
		},
		"MergeSelectedAway": {
			selected: 1,
			edit:     func(s *Session[string]) error { return s.Merge(1, partition.Left) },
			expected: NoSelection,
		},
		"MergeNeighborIntoSelected": {
			selected: 0,
			edit:     func(s *Session[string]) error { return s.Merge(1, partition.Left) },
			expected: 0,
		},
		"RemoveBefore": {
			selected: 2,
			edit:     func(s *Session[string]) error { return s.Remove(0) },
			expected: 2,
		},
		"FailedEditKeepsSelection": {
			selected: 2,
			edit:     func(s *Session[string]) error { return s.Split(1000) },
			expected: 2,
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := newSession(t)
			assert.NoError(t, s.Select(tc.selected))
			_ = tc.edit(s)
			assert.Equal(t, tc.expected, selected(s))
			assert.NoError(t, partition.Validate(s.Items()))
		})
	}
}

func TestInsertSelectsSegment(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.Insert(50))
	assert.Equal(t, 1, selected(s))
	items := s.Items()
	assert.Equal(t, 5, len(items))
	assert.Equal(t, partition.Item[string]{Begin: 50, End: 51}, items[1])
}

func TestDrag(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.Select(2))
	assert.NoError(t, s.BeginDrag(0, partition.EdgeEnd))

	preview, err := s.Drag(160)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(preview))
	if diff := cmp.Diff(threeItems, s.Items()); diff != "" {
		t.Errorf("preview leaked into committed items -want, +got:\n%s", diff)
	}
	if diff := cmp.Diff(preview, s.Display()); diff != "" {
		t.Errorf("display -want, +got:\n%s", diff)
	}

	// a failing preview keeps the last good one
	_, err = s.Drag(400)
	assert.True(t, errors.Is(err, partition.ErrOutOfDomain))

	assert.True(t, errors.Is(s.Split(10), ErrDragInProgress))
	assert.True(t, errors.Is(s.BeginDrag(1, partition.EdgeEnd), ErrDragInProgress))

	assert.NoError(t, s.EndDrag())
	assert.False(t, s.Dragging())
	expected := partition.Items[string]{
		{Begin: 0, End: 260, Value: "a"},
		{Begin: 260, End: 300, Value: "c"},
	}
	if diff := cmp.Diff(expected, s.Items()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	assert.Equal(t, 1, selected(s))
}

func TestDragRemovesSelection(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.Select(1))
	assert.NoError(t, s.BeginDrag(0, partition.EdgeEnd))
	_, err := s.Drag(160)
	assert.NoError(t, err)
	assert.NoError(t, s.EndDrag())
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestCancelDrag(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.Select(1))
	assert.NoError(t, s.BeginDrag(1, partition.EdgeEnd))
	_, err := s.Drag(-50)
	assert.NoError(t, err)
	s.CancelDrag()

	if diff := cmp.Diff(threeItems, s.Display()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
	assert.Equal(t, 1, selected(s))
	assert.True(t, errors.Is(s.EndDrag(), ErrNoDrag))
	_, err = s.Drag(10)
	assert.True(t, errors.Is(err, ErrNoDrag))
}

func TestEndDragWithoutPreview(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.BeginDrag(1, partition.EdgeBegin))
	assert.NoError(t, s.EndDrag())
	if diff := cmp.Diff(threeItems, s.Items()); diff != "" {
		t.Errorf("-want, +got:\n%s", diff)
	}
}

func TestZoomPanSelect(t *testing.T) {
	s := newSession(t)
	s.Zoom(viewbox.In, nil)
	assert.Equal(t, &viewbox.ViewBox{Start: 37.5, End: 262.5}, s.ViewBox())

	s.Pan(-100)
	assert.Equal(t, &viewbox.ViewBox{Start: 0, End: 225}, s.ViewBox())

	assert.NoError(t, s.Select(2))
	assert.Equal(t, &viewbox.ViewBox{Start: 75, End: 300}, s.ViewBox())

	visible := s.Visible()
	assert.Equal(t, 3, len(visible))
	assert.Equal(t, 75.0, visible[0].Item.Begin)

	s.Zoom(viewbox.Out, nil)
	s.Zoom(viewbox.Out, nil)
	assert.True(t, s.ViewBox() == nil)
}

func TestSelectAt(t *testing.T) {
	s := newSession(t)
	assert.NoError(t, s.SelectAt(100))
	assert.Equal(t, 1, selected(s))
	assert.True(t, errors.Is(s.SelectAt(301), partition.ErrOutOfDomain))
	assert.True(t, errors.Is(s.Select(3), partition.ErrInvalidIndex))
	s.ClearSelection()
	_, ok := s.Selected()
	assert.False(t, ok)
}

func TestCommit(t *testing.T) {
	tbl, err := lmtable.NewTable[string](10, nil, nil)
	assert.NoError(t, err)
	lbls := lmtable.Labels("lmedit", "V1", "restriction")

	s := newSession(t)
	assert.NoError(t, s.Commit(tbl, 7, lbls))
	assert.NoError(t, s.Split(50))
	assert.NoError(t, s.Commit(tbl, 7, lbls))

	e, err := tbl.Get(7)
	assert.NoError(t, err)
	assert.Equal(t, 4, len(e.Items))
	assert.Equal(t, "V1", e.Labels[lmtable.LabelTrack])

	assert.Error(t, s.Commit(tbl, 10, lbls))
}

func TestCommitDynamic(t *testing.T) {
	tbl, err := lmtable.NewTable[string](2, nil, nil)
	assert.NoError(t, err)
	lbls := lmtable.Labels("lmedit", "V1", "speed")

	s := newSession(t)
	id, err := s.CommitDynamic(tbl, lbls)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), id)
	id, err = s.CommitDynamic(tbl, lbls)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), id)
	_, err = s.CommitDynamic(tbl, lbls)
	assert.True(t, errors.Is(err, lmtable.ErrFull))

	assert.NoError(t, s.BeginDrag(0, partition.EdgeEnd))
	_, err = s.CommitDynamic(tbl, lbls)
	assert.True(t, errors.Is(err, ErrDragInProgress))
}

func TestWarnings(t *testing.T) {
	control := partition.Items[intersect.Control[string]]{
		{Begin: 0, End: 500, Value: intersect.Restricted("C1US")},
	}
	s, err := New("warnings", control, &Config[intersect.Control[string]]{
		Log:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		EmptyValue: intersect.Unrestricted[string](),
	})
	assert.NoError(t, err)

	reference := partition.Items[string]{
		{Begin: 0, End: 300, Value: "25000V"},
		{Begin: 300, End: 500, Value: "1500V"},
	}
	table := intersect.Table[string, string]{}.Allow("25000V", "C1US").Allow("1500V", "C3US")

	warnings := Warnings(s, reference, table)
	assert.Equal(t, 1, len(warnings))
	assert.Equal(t, intersect.InvalidCombination, warnings[0].Kind)

	// clearing the restriction leaves it missing on 1500V only
	assert.NoError(t, s.Split(300))
	assert.NoError(t, s.Remove(1))
	warnings = Warnings(s, reference, table)
	assert.Equal(t, 1, len(warnings))
	assert.Equal(t, intersect.MissingRestriction, warnings[0].Kind)
	assert.Equal(t, 300.0, warnings[0].Begin)
}
