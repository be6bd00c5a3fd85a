package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/henderiw/lmtable/pkg/intersect"
	"github.com/henderiw/lmtable/pkg/lmtable"
	"github.com/henderiw/lmtable/pkg/partition"
	"github.com/henderiw/lmtable/pkg/viewbox"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrDragInProgress = errors.New("drag in progress")
	ErrNoDrag         = errors.New("no drag in progress")
)

// NoSelection is returned by Selected when nothing is selected.
const NoSelection = -1

// Config contains configuration for creating a session.
type Config[T comparable] struct {
	Log *slog.Logger
	// Zoom defaults to viewbox.DefaultConfig().
	Zoom *viewbox.Config
	// EmptyValue is the value of inserted and removed segments.
	EmptyValue T
	// Unit of inserted and removed segments.
	Unit string
}

// Session edits one partition: selection, viewbox, and drags. Every edit
// replaces the partition and remaps the selection. A Session is not safe for
// concurrent use.
type Session[T comparable] struct {
	ID  string
	log *slog.Logger

	items    partition.Items[T]
	selected int
	viewbox  *viewbox.ViewBox
	zoom     viewbox.Config
	empty    T
	unit     string

	drag *drag[T]
}

type drag[T comparable] struct {
	index   int
	edge    partition.Edge
	gap     float64
	preview *partition.Result[T]
}

// New creates a session editing items, which must be a valid partition.
func New[T comparable](id string, items partition.Items[T], cfg *Config[T]) (*Session[T], error) {
	if cfg == nil {
		cfg = &Config[T]{}
	}
	if err := partition.Validate(items); err != nil {
		return nil, err
	}
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	zoom := viewbox.DefaultConfig()
	if cfg.Zoom != nil {
		zoom = *cfg.Zoom
	}
	return &Session[T]{
		ID:       id,
		log:      log.With("session", id),
		items:    items.Clone(),
		selected: NoSelection,
		zoom:     zoom,
		empty:    cfg.EmptyValue,
		unit:     cfg.Unit,
	}, nil
}

// Items returns the last committed partition.
func (s *Session[T]) Items() partition.Items[T] { return s.items.Clone() }

// Display returns the partition to show: the drag preview while dragging,
// the committed partition otherwise.
func (s *Session[T]) Display() partition.Items[T] {
	if s.drag != nil && s.drag.preview != nil {
		return s.drag.preview.Items.Clone()
	}
	return s.Items()
}

// Visible returns the displayed items cropped to the viewbox.
func (s *Session[T]) Visible() []viewbox.Cropped[T] {
	return viewbox.Crop(s.Display(), s.viewbox)
}

func (s *Session[T]) Selected() (int, bool) {
	return s.selected, s.selected != NoSelection
}

func (s *Session[T]) ViewBox() *viewbox.ViewBox {
	if s.viewbox == nil {
		return nil
	}
	vb := *s.viewbox
	return &vb
}

func (s *Session[T]) Dragging() bool { return s.drag != nil }

// Select selects the item at index and pans the viewbox to show it.
func (s *Session[T]) Select(index int) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", partition.ErrInvalidIndex, index, len(s.items))
	}
	s.selected = index
	s.viewbox = viewbox.ForSelection(s.items, s.viewbox, index)
	return nil
}

// SelectAt selects the item at position pos.
func (s *Session[T]) SelectAt(pos float64) error {
	index, ok := partition.ItemAt(s.items, pos)
	if !ok {
		return fmt.Errorf("%w: %g", partition.ErrOutOfDomain, pos)
	}
	return s.Select(index)
}

func (s *Session[T]) ClearSelection() { s.selected = NoSelection }

func (s *Session[T]) Split(at float64) error {
	if err := s.idle(); err != nil {
		return err
	}
	res, err := partition.SplitAt(s.items, at)
	if err != nil {
		return err
	}
	s.apply(res)
	s.log.Debug("split", "at", at, "items", len(s.items))
	return nil
}

func (s *Session[T]) Merge(index int, dir partition.Direction) error {
	if err := s.idle(); err != nil {
		return err
	}
	res, err := partition.MergeIn(s.items, index, dir)
	if err != nil {
		return err
	}
	s.apply(res)
	s.log.Debug("merge", "index", index, "direction", dir, "items", len(s.items))
	return nil
}

// Insert creates an empty segment at position at and selects it.
func (s *Session[T]) Insert(at float64) error {
	if err := s.idle(); err != nil {
		return err
	}
	res, err := partition.CreateEmptySegmentAt(s.items, at, s.empty, s.unit)
	if err != nil {
		return err
	}
	s.apply(res)
	if index, ok := partition.ItemAt(s.items, at); ok {
		s.selected = index
	}
	s.log.Debug("insert", "at", at, "items", len(s.items))
	return nil
}

func (s *Session[T]) Remove(index int) error {
	if err := s.idle(); err != nil {
		return err
	}
	res, err := partition.RemoveSegment(s.items, index, s.empty, s.unit)
	if err != nil {
		return err
	}
	s.apply(res)
	s.log.Debug("remove", "index", index, "items", len(s.items))
	return nil
}

// BeginDrag starts moving the edge of the item at index.
func (s *Session[T]) BeginDrag(index int, edge partition.Edge) error {
	if err := s.idle(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("%w: %d not in [0, %d)", partition.ErrInvalidIndex, index, len(s.items))
	}
	s.drag = &drag[T]{index: index, edge: edge}
	return nil
}

// Drag previews moving the dragged edge by gap from its position at
// BeginDrag. Previews are discarded until EndDrag. A failing preview leaves
// the last successful one in place.
func (s *Session[T]) Drag(gap float64) (partition.Items[T], error) {
	if s.drag == nil {
		return nil, ErrNoDrag
	}
	res, err := partition.PreviewResize(s.items, s.drag.index, gap, s.drag.edge)
	if err != nil {
		return nil, err
	}
	s.drag.gap = gap
	s.drag.preview = res
	return res.Items.Clone(), nil
}

// EndDrag commits the last previewed gap.
func (s *Session[T]) EndDrag() error {
	if s.drag == nil {
		return ErrNoDrag
	}
	d := s.drag
	s.drag = nil
	if d.preview == nil {
		return nil
	}
	res, err := partition.CommitResize(s.items, d.index, d.gap, d.edge)
	if err != nil {
		return err
	}
	s.apply(res)
	s.log.Debug("drag committed", "index", d.index, "edge", d.edge, "gap", d.gap, "items", len(s.items))
	return nil
}

// CancelDrag drops the drag, the partition stays as last committed.
func (s *Session[T]) CancelDrag() {
	if s.drag == nil {
		return
	}
	s.log.Debug("drag cancelled", "index", s.drag.index, "edge", s.drag.edge, "gap", s.drag.gap)
	s.drag = nil
}

// Zoom zooms the viewbox around focal, or around its center when focal is
// nil.
func (s *Session[T]) Zoom(dir viewbox.Direction, focal *float64) {
	s.viewbox = s.zoom.Zoom(s.items, s.viewbox, dir, focal)
}

func (s *Session[T]) Pan(delta float64) {
	s.viewbox = viewbox.Translate(s.items, s.viewbox, delta)
}

// Commit stores the partition under id, claiming the entry when it does not
// exist yet.
func (s *Session[T]) Commit(t lmtable.Table[T], id int64, lbls labels.Set) error {
	if err := s.idle(); err != nil {
		return err
	}
	e := lmtable.NewEntry(s.items, lbls)
	var err error
	if t.Has(id) {
		err = t.Update(id, e)
	} else {
		err = t.Claim(id, e)
	}
	if err != nil {
		s.log.Error("commit failed", "id", id, "error", err)
		return err
	}
	s.log.Info("committed", "id", id, "items", len(s.items), "length", s.items.TotalLength())
	return nil
}

// CommitDynamic writes the partition into the first free entry of t and
// returns its id.
func (s *Session[T]) CommitDynamic(t lmtable.Table[T], lbls labels.Set) (int64, error) {
	if err := s.idle(); err != nil {
		return 0, err
	}
	id, err := t.ClaimDynamic(lmtable.NewEntry(s.items, lbls))
	if err != nil {
		s.log.Error("commit failed", "error", err)
		return 0, err
	}
	s.log.Info("committed", "id", id, "items", len(s.items), "length", s.items.TotalLength())
	return id, nil
}

// Warnings classifies the partition of s against reference.
func Warnings[C, R comparable](s *Session[intersect.Control[C]], reference partition.Items[R], table intersect.Table[C, R]) []intersect.Warning[C, R] {
	return intersect.ClassifyOverlaps(s.items, reference, table)
}

func (s *Session[T]) idle() error {
	if s.drag != nil {
		return ErrDragInProgress
	}
	return nil
}

func (s *Session[T]) apply(res *partition.Result[T]) {
	s.items = res.Items
	if s.selected == NoSelection {
		return
	}
	if index, ok := res.Mapping.Get(s.selected); ok {
		s.selected = index
		return
	}
	s.selected = NoSelection
}
