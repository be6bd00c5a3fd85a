package intersect

import (
	"fmt"

	"k8s.io/apimachinery/pkg/util/sets"
)

// Control is a control value: either no restriction at all, or a
// restriction code.
type Control[C comparable] struct {
	code       C
	restricted bool
}

func Unrestricted[C comparable]() Control[C] {
	return Control[C]{}
}

func Restricted[C comparable](code C) Control[C] {
	return Control[C]{code: code, restricted: true}
}

// Code returns the restriction code and true, or false when unrestricted.
func (r Control[C]) Code() (C, bool) {
	return r.code, r.restricted
}

func (r Control[C]) IsRestricted() bool { return r.restricted }

func (r Control[C]) String() string {
	if !r.restricted {
		return "unrestricted"
	}
	return fmt.Sprintf("%v", r.code)
}

// Table maps a reference value to the control codes allowed on it. A
// reference value without entry supports no restriction at all.
type Table[C, R comparable] map[R]sets.Set[C]

// Allow adds codes to the allowed set of ref.
func (r Table[C, R]) Allow(ref R, codes ...C) Table[C, R] {
	s, ok := r[ref]
	if !ok {
		s = sets.New[C]()
		r[ref] = s
	}
	s.Insert(codes...)
	return r
}
