// Package rangeset implements a set of unsigned integers stored as a
// minimal sorted sequence of disjoint inclusive ranges.
package rangeset

import (
	"errors"
	"fmt"
	"iter"
	"math/bits"
	"sort"
	"strings"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

var ErrInvalidRange = errors.New("invalid range")

// RangeSet is a set of values of T. The zero value is an empty set.
//
// A RangeSet is not safe for concurrent use; readers must not overlap
// with mutations of the same set.
type RangeSet[T constraints.Unsigned] struct {
	// rr is sorted, non-empty ranges with at least one absent value
	// between consecutive ranges. Every method relies on this.
	rr []Range[T]
}

func New[T constraints.Unsigned]() *RangeSet[T] {
	return &RangeSet[T]{}
}

// WithCapacity returns an empty set with room for n ranges. n is a hint.
func WithCapacity[T constraints.Unsigned](n int) *RangeSet[T] {
	if n < 0 {
		n = 0
	}
	return &RangeSet[T]{rr: make([]Range[T], 0, n)}
}

func FromRange[T constraints.Unsigned](r Range[T]) (*RangeSet[T], error) {
	s := New[T]()
	if err := s.InsertRange(r); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *RangeSet[T]) IsEmpty() bool {
	return len(s.rr) == 0
}

// Clear removes all values. Iterators obtained before must not be used.
func (s *RangeSet[T]) Clear() {
	clear(s.rr)
	s.rr = s.rr[:0]
}

// Contains returns whether v is in s.
func (s *RangeSet[T]) Contains(v T) bool {
	_, found := s.search(v)
	return found
}

// search returns the index of the range holding v, or the index at which a
// range holding v would be inserted.
func (s *RangeSet[T]) search(v T) (int, bool) {
	return slices.BinarySearchFunc(s.rr, v, func(r Range[T], v T) int {
		switch {
		case r.To < v:
			return -1
		case r.From > v:
			return 1
		}
		return 0
	})
}

// Insert adds v and returns whether s changed.
func (s *RangeSet[T]) Insert(v T) bool {
	i, found := s.search(v)
	if found {
		return false
	}
	extendsPrev := i > 0 && s.rr[i-1].To+1 == v
	extendsNext := i < len(s.rr) && v+1 == s.rr[i].From
	switch {
	case extendsPrev && extendsNext:
		// v bridges two ranges.
		//
		//   prev   v   next
		// f------t . f------t
		s.rr[i-1].To = s.rr[i].To
		s.rr = slices.Delete(s.rr, i, i+1)
	case extendsPrev:
		s.rr[i-1].To = v
	case extendsNext:
		s.rr[i].From = v
	default:
		s.rr = slices.Insert(s.rr, i, RangeFrom(v, v))
	}
	return true
}

// Remove deletes v and returns whether it was present.
func (s *RangeSet[T]) Remove(v T) bool {
	if !s.Contains(v) {
		return false
	}
	// cannot fail, the range is a single value.
	_ = s.RemoveRange(RangeFrom(v, v))
	return true
}

// InsertRange adds every value in r, merging it with all ranges it
// overlaps or touches.
func (s *RangeSet[T]) InsertRange(r Range[T]) error {
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	// [i, j) are the ranges r absorbs.
	i := sort.Search(len(s.rr), func(k int) bool { return !s.rr[k].EntirelyBefore(r) })
	j := i + sort.Search(len(s.rr)-i, func(k int) bool { return r.EntirelyBefore(s.rr[i+k]) })
	if i == j {
		s.rr = slices.Insert(s.rr, i, r)
		return nil
	}
	s.rr[i] = Range[T]{
		From: min(r.From, s.rr[i].From),
		To:   max(r.To, s.rr[j-1].To),
	}
	s.rr = slices.Delete(s.rr, i+1, j)
	return nil
}

// RemoveRange deletes every value in r. Ranges straddling r are split.
func (s *RangeSet[T]) RemoveRange(r Range[T]) error {
	if !r.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidRange, r)
	}
	// [i, j) are the ranges r overlaps.
	i := sort.Search(len(s.rr), func(k int) bool { return s.rr[k].To >= r.From })
	j := sort.Search(len(s.rr), func(k int) bool { return s.rr[k].From > r.To })
	if i >= j {
		return nil
	}
	var buf [2]Range[T]
	keep := buf[:0]
	if first := s.rr[i]; first.From < r.From {
		//   first
		// f-------t
		//      f-------t
		//          r
		keep = append(keep, RangeFrom(first.From, r.From-1))
	}
	if last := s.rr[j-1]; last.To > r.To {
		//          last
		//      f--------t
		// f-------t
		//     r
		keep = append(keep, RangeFrom(r.To+1, last.To))
	}
	s.rr = slices.Delete(s.rr, i, j)
	s.rr = slices.Insert(s.rr, i, keep...)
	return nil
}

// InsertSet adds every value of other to s.
func (s *RangeSet[T]) InsertSet(other *RangeSet[T]) {
	if other == nil {
		return
	}
	for _, r := range other.Ranges() {
		_ = s.InsertRange(r)
	}
}

// RemoveSet deletes every value of other from s.
func (s *RangeSet[T]) RemoveSet(other *RangeSet[T]) {
	if other == nil {
		return
	}
	for _, r := range other.Ranges() {
		_ = s.RemoveRange(r)
	}
}

// Len returns the number of values in s, saturating at math.MaxUint64.
func (s *RangeSet[T]) Len() uint64 {
	var n uint64
	for _, r := range s.rr {
		var carry uint64
		n, carry = bits.Add64(n, r.Len(), 0)
		if carry != 0 {
			return ^uint64(0)
		}
	}
	return n
}

func (s *RangeSet[T]) NumRanges() int {
	return len(s.rr)
}

// Ranges returns the minimal sorted sequence of ranges covering s.
func (s *RangeSet[T]) Ranges() []Range[T] {
	return append([]Range[T]{}, s.rr...)
}

// RangeSeq yields the ranges of s in increasing order.
func (s *RangeSet[T]) RangeSeq() iter.Seq[Range[T]] {
	return func(yield func(Range[T]) bool) {
		for _, r := range s.rr {
			if !yield(r) {
				return
			}
		}
	}
}

// All yields every value of s in increasing order.
func (s *RangeSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		it := s.Iterate()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Iterate returns an iterator over the values of s as they are now.
func (s *RangeSet[T]) Iterate() *Iterator[T] {
	return &Iterator[T]{rr: s.Ranges()}
}

func (s *RangeSet[T]) Clone() *RangeSet[T] {
	return &RangeSet[T]{rr: slices.Clone(s.rr)}
}

func (s *RangeSet[T]) Equal(other *RangeSet[T]) bool {
	if other == nil {
		return s.IsEmpty()
	}
	return slices.Equal(s.rr, other.rr)
}

func (s *RangeSet[T]) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, r := range s.rr {
		if i > 0 {
			sb.WriteString(", ")
		}
		if r.From == r.To {
			fmt.Fprintf(&sb, "%d", r.From)
			continue
		}
		sb.WriteString(r.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
