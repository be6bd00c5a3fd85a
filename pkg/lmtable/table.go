package lmtable

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/henderiw/lmtable/pkg/partition"
	"k8s.io/apimachinery/pkg/labels"
)

var (
	ErrNotFound       = errors.New("entry not found")
	ErrAlreadyClaimed = errors.New("entry already claimed")
	ErrFull           = errors.New("no free entry found")
)

// Table holds the committed partitions, keyed by attribute id. It is safe
// for concurrent use.
type Table[T comparable] interface {
	Get(id int64) (Entry[T], error)
	Claim(id int64, e Entry[T]) error
	ClaimDynamic(e Entry[T]) (int64, error)
	Release(id int64) error
	Update(id int64, e Entry[T]) error

	Iterate() *Iterator[T]

	Count() int
	Has(id int64) bool

	IsFree(id int64) bool
	FindFree() (int64, error)

	GetAll() map[int64]Entry[T]
	GetByLabel(selector labels.Selector) map[int64]Entry[T]
}

// ValidationFn is called on every claim and update, after the partition
// itself was validated.
type ValidationFn[T comparable] func(id int64, e Entry[T]) error

func NewTable[T comparable](s int64, initEntries map[int64]Entry[T], v ValidationFn[T]) (Table[T], error) {
	r := &table[T]{
		m:          new(sync.RWMutex),
		table:      map[int64]Entry[T]{},
		size:       s,
		validateFn: v,
	}

	var errm error
	for id, e := range initEntries {
		if err := r.add(id, e); err != nil {
			errm = errors.Join(errm, err)
		}
	}

	return r, errm
}

type table[T comparable] struct {
	m          *sync.RWMutex
	table      map[int64]Entry[T]
	size       int64
	validateFn ValidationFn[T]
}

func (r *table[T]) validateID(id int64) error {
	if id < 0 || id > r.size-1 {
		return fmt.Errorf("id %d outside allowed entries: [0, %d]", id, r.size-1)
	}
	return nil
}

func (r *table[T]) validate(id int64, e Entry[T]) error {
	if err := r.validateID(id); err != nil {
		return err
	}
	if err := partition.Validate(e.Items); err != nil {
		return fmt.Errorf("entry %d: %w", id, err)
	}
	if r.validateFn != nil {
		if err := r.validateFn(id, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *table[T]) Get(id int64) (Entry[T], error) {
	r.m.RLock()
	defer r.m.RUnlock()

	if err := r.validateID(id); err != nil {
		return Entry[T]{}, err
	}
	e, ok := r.table[id]
	if !ok {
		return Entry[T]{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return e.clone(), nil
}

func (r *table[T]) Claim(id int64, e Entry[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.add(id, e)
}

func (r *table[T]) ClaimDynamic(e Entry[T]) (int64, error) {
	r.m.Lock()
	defer r.m.Unlock()

	id, err := r.findFree()
	if err != nil {
		return 0, err
	}
	if err := r.add(id, e); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *table[T]) Release(id int64) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.delete(id)
}

func (r *table[T]) Update(id int64, e Entry[T]) error {
	r.m.Lock()
	defer r.m.Unlock()

	return r.update(id, e)
}

func (r *table[T]) Iterate() *Iterator[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	return r.iterate()
}

// iterate snapshots the table, the iterator stays valid after the lock is
// released.
func (r *table[T]) iterate() *Iterator[T] {
	keys := make([]int64, 0, len(r.table))
	entries := make(map[int64]Entry[T], len(r.table))
	for key, e := range r.table {
		keys = append(keys, key)
		entries[key] = e.clone()
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})

	return &Iterator[T]{current: -1, keys: keys, table: entries}
}

func (r *table[T]) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table[T]) Has(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[id]
	return ok
}

func (r *table[T]) IsFree(id int64) bool {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.isFree(id)
}

func (r *table[T]) isFree(id int64) bool {
	_, ok := r.table[id]
	return !ok
}

func (r *table[T]) FindFree() (int64, error) {
	r.m.RLock()
	defer r.m.RUnlock()
	return r.findFree()
}

func (r *table[T]) findFree() (int64, error) {
	for id := int64(0); id < r.size; id++ {
		if r.isFree(id) {
			return id, nil
		}
	}
	return 0, ErrFull
}

func (r *table[T]) add(id int64, e Entry[T]) error {
	if err := r.validate(id, e); err != nil {
		return err
	}
	if !r.isFree(id) {
		return fmt.Errorf("%w: %d", ErrAlreadyClaimed, id)
	}
	r.table[id] = e.clone()
	return nil
}

func (r *table[T]) update(id int64, e Entry[T]) error {
	if err := r.validate(id, e); err != nil {
		return err
	}
	if r.isFree(id) {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	r.table[id] = e.clone()
	return nil
}

func (r *table[T]) delete(id int64) error {
	if err := r.validateID(id); err != nil {
		return err
	}
	delete(r.table, id)
	return nil
}

func (r *table[T]) GetAll() map[int64]Entry[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := make(map[int64]Entry[T], len(r.table))

	iter := r.iterate()
	for iter.Next() {
		entries[iter.ID()] = iter.Value()
	}
	return entries
}

func (r *table[T]) GetByLabel(selector labels.Selector) map[int64]Entry[T] {
	r.m.RLock()
	defer r.m.RUnlock()

	entries := map[int64]Entry[T]{}

	iter := r.iterate()
	for iter.Next() {
		if selector.Matches(iter.Value().Labels) {
			entries[iter.ID()] = iter.Value()
		}
	}
	return entries
}
