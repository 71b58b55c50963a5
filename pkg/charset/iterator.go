package charset

import "github.com/henderiw/charset/pkg/rangeset"

// Iterator walks the runes of a CharSet in increasing order.
type Iterator struct {
	inner *rangeset.Iterator[uint32]
}

func (r *Iterator) Next() bool {
	return r.inner.Next()
}

func (r *Iterator) Value() rune {
	return trusted(r.inner.Value())
}
