// Package charset provides sets of Unicode scalar values stored as
// ranges of code points.
//
// A CharSet never holds a surrogate (U+D800-U+DFFF) or a value above
// U+10FFFF, so every value it yields is a valid rune.
package charset

import (
	"errors"
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	"github.com/go-logr/logr"
	"github.com/henderiw/charset/pkg/rangeset"
)

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF
)

var (
	ErrInvalidRune  = errors.New("invalid unicode scalar value")
	ErrInvalidRange = rangeset.ErrInvalidRange
)

type options struct {
	log      logr.Logger
	capacity int
}

type Option func(*options)

// WithLogger sets the logger used to report rejected input and ranges
// split around the surrogate gap.
func WithLogger(l logr.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCapacity preallocates room for n ranges.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// CharSet is a set of runes. The zero value is an empty set.
//
// A CharSet is not safe for concurrent use.
type CharSet struct {
	rs  rangeset.RangeSet[uint32]
	log logr.Logger
}

func New(opts ...Option) *CharSet {
	o := options{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return &CharSet{
		rs:  *rangeset.WithCapacity[uint32](o.capacity),
		log: o.log,
	}
}

// FromRange returns a set holding lo through hi.
func FromRange(lo, hi rune, opts ...Option) (*CharSet, error) {
	c := New(opts...)
	if err := c.InsertRange(lo, hi); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *CharSet) IsEmpty() bool { return c.rs.IsEmpty() }

func (c *CharSet) Clear() { c.rs.Clear() }

// Len returns the number of runes in c.
func (c *CharSet) Len() int { return int(c.rs.Len()) }

func (c *CharSet) Contains(r rune) bool {
	return utf8.ValidRune(r) && c.rs.Contains(uint32(r))
}

// Insert adds r and returns whether c changed. Runes that are not valid
// scalar values are never added.
func (c *CharSet) Insert(r rune) bool {
	if !utf8.ValidRune(r) {
		c.log.V(1).Info("rejected rune", "rune", fmt.Sprintf("%U", r))
		return false
	}
	return c.rs.Insert(uint32(r))
}

// Remove deletes r and returns whether it was present.
func (c *CharSet) Remove(r rune) bool {
	if !utf8.ValidRune(r) {
		return false
	}
	return c.rs.Remove(uint32(r))
}

// InsertRange adds lo through hi. A range spanning the surrogate gap is
// stored as the two ranges on either side of it.
func (c *CharSet) InsertRange(lo, hi rune) error {
	if err := c.validate(lo, hi); err != nil {
		return err
	}
	if hi >= surrogateMax+1 && lo < surrogateMin {
		c.log.V(1).Info("splitting range around surrogate gap", "range", RuneRange{Lo: lo, Hi: hi})
		if err := c.rs.InsertRange(rangeset.RangeFrom[uint32](uint32(lo), surrogateMin-1)); err != nil {
			return err
		}
		return c.rs.InsertRange(rangeset.RangeFrom[uint32](surrogateMax+1, uint32(hi)))
	}
	return c.rs.InsertRange(rangeset.RangeFrom(uint32(lo), uint32(hi)))
}

// RemoveRange deletes lo through hi.
func (c *CharSet) RemoveRange(lo, hi rune) error {
	if err := c.validate(lo, hi); err != nil {
		return err
	}
	return c.rs.RemoveRange(rangeset.RangeFrom(uint32(lo), uint32(hi)))
}

func (c *CharSet) validate(lo, hi rune) error {
	var err error
	switch {
	case !utf8.ValidRune(lo):
		err = fmt.Errorf("%w: %U", ErrInvalidRune, lo)
	case !utf8.ValidRune(hi):
		err = fmt.Errorf("%w: %U", ErrInvalidRune, hi)
	case lo > hi:
		err = fmt.Errorf("%w: %U-%U", ErrInvalidRange, lo, hi)
	}
	if err != nil {
		c.log.V(1).Info("rejected range", "error", err.Error())
	}
	return err
}

// InsertSet adds every rune of other to c.
func (c *CharSet) InsertSet(other *CharSet) {
	if other == nil {
		return
	}
	c.rs.InsertSet(&other.rs)
}

// RemoveSet deletes every rune of other from c.
func (c *CharSet) RemoveSet(other *CharSet) {
	if other == nil {
		return
	}
	c.rs.RemoveSet(&other.rs)
}

// IntoInner hands over the underlying code point set and leaves c empty.
// Values inserted through the returned set are not checked; they must be
// scalar values if the set is ever converted back to runes.
func (c *CharSet) IntoInner() *rangeset.RangeSet[uint32] {
	inner := c.rs
	c.rs = rangeset.RangeSet[uint32]{}
	return &inner
}

func (c *CharSet) Clone() *CharSet {
	return &CharSet{rs: *c.rs.Clone(), log: c.log}
}

func (c *CharSet) Equal(other *CharSet) bool {
	if other == nil {
		return c.IsEmpty()
	}
	return c.rs.Equal(&other.rs)
}

// Iterate returns an iterator over the runes of c as they are now.
func (c *CharSet) Iterate() *Iterator {
	return &Iterator{inner: c.rs.Iterate()}
}

// All yields every rune of c in increasing order.
func (c *CharSet) All() iter.Seq[rune] {
	return func(yield func(rune) bool) {
		for v := range c.rs.All() {
			if !yield(trusted(v)) {
				return
			}
		}
	}
}

// Ranges returns the minimal sorted sequence of rune ranges covering c.
func (c *CharSet) Ranges() []RuneRange {
	out := make([]RuneRange, 0, c.rs.NumRanges())
	for r := range c.rs.RangeSeq() {
		out = append(out, runeRange(r))
	}
	return out
}

// RangeSeq yields the rune ranges of c in increasing order.
func (c *CharSet) RangeSeq() iter.Seq[RuneRange] {
	return func(yield func(RuneRange) bool) {
		for r := range c.rs.RangeSeq() {
			if !yield(runeRange(r)) {
				return
			}
		}
	}
}

// String formats c like a regexp character class, e.g. `[0-9a-z\u00e9]`.
func (c *CharSet) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for r := range c.RangeSeq() {
		sb.WriteString(describe(r.Lo))
		switch {
		case r.Hi == r.Lo:
		case r.Hi == r.Lo+1:
			sb.WriteString(describe(r.Hi))
		default:
			sb.WriteByte('-')
			sb.WriteString(describe(r.Hi))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func describe(r rune) string {
	switch {
	case r == '\\' || r == '-' || r == ']' || r == '[':
		return `\` + string(r)
	case r > ' ' && r <= '~':
		return string(r)
	case r <= 0xFFFF:
		return fmt.Sprintf(`\u%04x`, r)
	}
	return fmt.Sprintf(`\U%08x`, r)
}

// trusted converts a code point held by a CharSet back to a rune. It is
// only valid for values that entered through the checked insert paths.
func trusted(v uint32) rune { return rune(v) }

func runeRange(r rangeset.Range[uint32]) RuneRange {
	return RuneRange{Lo: trusted(r.From), Hi: trusted(r.To)}
}
