package rangeset

import "golang.org/x/exp/constraints"

// Iterator walks the values of a RangeSet in increasing order.
//
//	it := s.Iterate()
//	for it.Next() {
//		v := it.Value()
//	}
type Iterator[T constraints.Unsigned] struct {
	rr      []Range[T]
	current int
	value   T
	started bool
}

func (r *Iterator[T]) Value() T {
	return r.value
}

// Range returns the range holding the current value.
func (r *Iterator[T]) Range() Range[T] {
	return r.rr[r.current]
}

func (r *Iterator[T]) Next() bool {
	if r.current >= len(r.rr) {
		return false
	}
	if !r.started {
		r.started = true
		r.value = r.rr[0].From
		return true
	}
	if r.value < r.rr[r.current].To {
		r.value++
		return true
	}
	r.current++
	if r.current >= len(r.rr) {
		return false
	}
	r.value = r.rr[r.current].From
	return true
}
