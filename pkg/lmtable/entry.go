package lmtable

import (
	"maps"

	"github.com/henderiw/lmtable/pkg/partition"
	"k8s.io/apimachinery/pkg/labels"
)

// Entry is a committed partition of one attribute with the labels
// describing it (tool, track, attribute, ...).
type Entry[T comparable] struct {
	Items  partition.Items[T] `json:"items" yaml:"items"`
	Labels labels.Set         `json:"labels,omitempty" yaml:"labels,omitempty"`
}

func NewEntry[T comparable](items partition.Items[T], lbls labels.Set) Entry[T] {
	return Entry[T]{Items: items, Labels: lbls}.clone()
}

func (r Entry[T]) TotalLength() float64 { return r.Items.TotalLength() }

func (r Entry[T]) clone() Entry[T] {
	return Entry[T]{
		Items:  r.Items.Clone(),
		Labels: maps.Clone(r.Labels),
	}
}
