package lmtable

type Iterator[T comparable] struct {
	current int
	keys    []int64
	table   map[int64]Entry[T]
}

func (r *Iterator[T]) Value() Entry[T] {
	return r.table[r.keys[r.current]]
}

func (r *Iterator[T]) ID() int64 {
	return r.keys[r.current]
}

func (r *Iterator[T]) Next() bool {
	r.current++
	return r.current < len(r.keys)
}
