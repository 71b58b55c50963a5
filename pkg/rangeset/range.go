package rangeset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"
)

// Range is an inclusive range of values [From, To].
type Range[T constraints.Unsigned] struct {
	From T
	To   T
}

func RangeFrom[T constraints.Unsigned](from, to T) Range[T] {
	return Range[T]{From: from, To: to}
}

// ParseRange parses "from-to" or a single "v" in decimal.
func ParseRange[T constraints.Unsigned](s string) (Range[T], error) {
	var r Range[T]
	from, to, found := strings.Cut(s, "-")
	if !found {
		to = from
	}
	f, err := parseValue[T](from)
	if err != nil {
		return r, fmt.Errorf("invalid from value %q in range %q: %w", from, s, err)
	}
	t, err := parseValue[T](to)
	if err != nil {
		return r, fmt.Errorf("invalid to value %q in range %q: %w", to, s, err)
	}
	r = RangeFrom(f, t)
	if !r.IsValid() {
		return Range[T]{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return r, nil
}

func parseValue[T constraints.Unsigned](s string) (T, error) {
	u, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, err
	}
	if u > uint64(^T(0)) {
		return 0, fmt.Errorf("value %d overflows max %d", u, uint64(^T(0)))
	}
	return T(u), nil
}

func (r Range[T]) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

func (r Range[T]) IsValid() bool {
	return r.From <= r.To
}

func (r Range[T]) Contains(v T) bool {
	return r.From <= v && v <= r.To
}

// Len returns the number of values in r, saturating at math.MaxUint64.
func (r Range[T]) Len() uint64 {
	n := uint64(r.To - r.From)
	if n == math.MaxUint64 {
		return n
	}
	return n + 1
}

// EntirelyBefore returns whether r lies entirely before other, with at
// least one value between them.
func (r Range[T]) EntirelyBefore(other Range[T]) bool {
	return r.To < other.From && other.From-r.To > 1
}

// CoveredBy returns whether r is entirely contained within other.
func (r Range[T]) CoveredBy(other Range[T]) bool {
	return other.From <= r.From && r.To <= other.To
}

// Touches returns whether r and other overlap or are adjacent, i.e.
// whether their union is a single range.
func (r Range[T]) Touches(other Range[T]) bool {
	return !r.EntirelyBefore(other) && !other.EntirelyBefore(r)
}
