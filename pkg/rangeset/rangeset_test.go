package rangeset

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func r32(from, to uint32) Range[uint32] { return RangeFrom(from, to) }

func checkMinimal[T uint8 | uint16 | uint32 | uint64](t *testing.T, s *RangeSet[T]) {
	t.Helper()
	rr := s.Ranges()
	for i, r := range rr {
		if !r.IsValid() {
			t.Fatalf("range %d %s is empty", i, r)
		}
		if i > 0 && !rr[i-1].EntirelyBefore(r) {
			t.Fatalf("ranges %s and %s should have been merged", rr[i-1], r)
		}
	}
}

func TestInsertRange(t *testing.T) {
	cases := map[string]struct {
		insert   []Range[uint32]
		expected []Range[uint32]
	}{
		"Single": {
			insert:   []Range[uint32]{r32(10, 20)},
			expected: []Range[uint32]{r32(10, 20)},
		},
		"Disjoint": {
			insert:   []Range[uint32]{r32(30, 40), r32(10, 20)},
			expected: []Range[uint32]{r32(10, 20), r32(30, 40)},
		},
		"Adjacent": {
			insert:   []Range[uint32]{r32(10, 20), r32(21, 30)},
			expected: []Range[uint32]{r32(10, 30)},
		},
		"AdjacentBelow": {
			insert:   []Range[uint32]{r32(21, 30), r32(10, 20)},
			expected: []Range[uint32]{r32(10, 30)},
		},
		"Overlap": {
			insert:   []Range[uint32]{r32(10, 20), r32(15, 25)},
			expected: []Range[uint32]{r32(10, 25)},
		},
		"Covered": {
			insert:   []Range[uint32]{r32(10, 20), r32(12, 14)},
			expected: []Range[uint32]{r32(10, 20)},
		},
		"AbsorbMany": {
			insert:   []Range[uint32]{r32(1, 2), r32(5, 6), r32(9, 10), r32(20, 30), r32(3, 19)},
			expected: []Range[uint32]{r32(1, 30)},
		},
		"AbsorbMiddle": {
			insert:   []Range[uint32]{r32(1, 2), r32(5, 6), r32(9, 10), r32(20, 30), r32(6, 9)},
			expected: []Range[uint32]{r32(1, 2), r32(5, 10), r32(20, 30)},
		},
		"GapKept": {
			insert:   []Range[uint32]{r32(10, 20), r32(22, 30)},
			expected: []Range[uint32]{r32(10, 20), r32(22, 30)},
		},
		"Idempotent": {
			insert:   []Range[uint32]{r32(10, 20), r32(10, 20)},
			expected: []Range[uint32]{r32(10, 20)},
		},
		"Max": {
			insert:   []Range[uint32]{r32(math.MaxUint32-1, math.MaxUint32), r32(0, math.MaxUint32-2)},
			expected: []Range[uint32]{r32(0, math.MaxUint32)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New[uint32]()
			for _, r := range tc.insert {
				assert.NoError(t, s.InsertRange(r))
				checkMinimal(t, s)
			}
			if diff := cmp.Diff(tc.expected, s.Ranges()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestRemoveRange(t *testing.T) {
	cases := map[string]struct {
		insert   []Range[uint32]
		remove   []Range[uint32]
		expected []Range[uint32]
	}{
		"Split": {
			insert:   []Range[uint32]{r32('a', 'z')},
			remove:   []Range[uint32]{r32('m', 'm')},
			expected: []Range[uint32]{r32('a', 'l'), r32('n', 'z')},
		},
		"TruncateStart": {
			insert:   []Range[uint32]{r32(10, 20)},
			remove:   []Range[uint32]{r32(5, 12)},
			expected: []Range[uint32]{r32(13, 20)},
		},
		"TruncateEnd": {
			insert:   []Range[uint32]{r32(10, 20)},
			remove:   []Range[uint32]{r32(18, 25)},
			expected: []Range[uint32]{r32(10, 17)},
		},
		"DeleteCovered": {
			insert:   []Range[uint32]{r32(1, 2), r32(5, 6), r32(9, 10)},
			remove:   []Range[uint32]{r32(4, 7)},
			expected: []Range[uint32]{r32(1, 2), r32(9, 10)},
		},
		"AcrossMany": {
			insert:   []Range[uint32]{r32(1, 3), r32(5, 6), r32(9, 12)},
			remove:   []Range[uint32]{r32(2, 10)},
			expected: []Range[uint32]{r32(1, 1), r32(11, 12)},
		},
		"Absent": {
			insert:   []Range[uint32]{r32(10, 20)},
			remove:   []Range[uint32]{r32(30, 40), r32(0, 9)},
			expected: []Range[uint32]{r32(10, 20)},
		},
		"All": {
			insert:   []Range[uint32]{r32(10, 20), r32(30, 40)},
			remove:   []Range[uint32]{r32(0, math.MaxUint32)},
			expected: []Range[uint32]{},
		},
		"Edges": {
			insert:   []Range[uint32]{r32(0, math.MaxUint32)},
			remove:   []Range[uint32]{r32(0, 0), r32(math.MaxUint32, math.MaxUint32)},
			expected: []Range[uint32]{r32(1, math.MaxUint32-1)},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New[uint32]()
			for _, r := range tc.insert {
				assert.NoError(t, s.InsertRange(r))
			}
			for _, r := range tc.remove {
				assert.NoError(t, s.RemoveRange(r))
				checkMinimal(t, s)
			}
			if diff := cmp.Diff(tc.expected, s.Ranges()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestInvalidRange(t *testing.T) {
	s := New[uint32]()
	assert.NoError(t, s.InsertRange(r32(1, 5)))

	assert.ErrorIs(t, s.InsertRange(r32(9, 8)), ErrInvalidRange)
	assert.ErrorIs(t, s.RemoveRange(r32(4, 2)), ErrInvalidRange)
	assert.Equal(t, []Range[uint32]{r32(1, 5)}, s.Ranges())

	_, err := FromRange(r32(2, 1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestInsert(t *testing.T) {
	cases := map[string]struct {
		initial  []Range[uint8]
		value    uint8
		changed  bool
		expected []Range[uint8]
	}{
		"Empty": {
			value:    7,
			changed:  true,
			expected: []Range[uint8]{{7, 7}},
		},
		"Present": {
			initial:  []Range[uint8]{{5, 9}},
			value:    7,
			expected: []Range[uint8]{{5, 9}},
		},
		"ExtendUp": {
			initial:  []Range[uint8]{{5, 9}},
			value:    10,
			changed:  true,
			expected: []Range[uint8]{{5, 10}},
		},
		"ExtendDown": {
			initial:  []Range[uint8]{{5, 9}},
			value:    4,
			changed:  true,
			expected: []Range[uint8]{{4, 9}},
		},
		"Bridge": {
			initial:  []Range[uint8]{{1, 3}, {5, 9}},
			value:    4,
			changed:  true,
			expected: []Range[uint8]{{1, 9}},
		},
		"Between": {
			initial:  []Range[uint8]{{1, 3}, {8, 9}},
			value:    5,
			changed:  true,
			expected: []Range[uint8]{{1, 3}, {5, 5}, {8, 9}},
		},
		"Zero": {
			initial:  []Range[uint8]{{1, 3}},
			value:    0,
			changed:  true,
			expected: []Range[uint8]{{0, 3}},
		},
		"Max": {
			initial:  []Range[uint8]{{250, 254}},
			value:    255,
			changed:  true,
			expected: []Range[uint8]{{250, 255}},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			s := New[uint8]()
			for _, r := range tc.initial {
				assert.NoError(t, s.InsertRange(r))
			}
			assert.Equal(t, tc.changed, s.Insert(tc.value))
			assert.True(t, s.Contains(tc.value))
			if diff := cmp.Diff(tc.expected, s.Ranges()); diff != "" {
				t.Errorf("%s: -want, +got:\n%s", name, diff)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	s, err := FromRange(RangeFrom[uint16](10, 12))
	assert.NoError(t, err)

	assert.False(t, s.Remove(9))
	assert.True(t, s.Remove(11))
	assert.False(t, s.Remove(11))
	assert.Equal(t, []Range[uint16]{{10, 10}, {12, 12}}, s.Ranges())
	assert.True(t, s.Remove(10))
	assert.True(t, s.Remove(12))
	assert.True(t, s.IsEmpty())
}

func TestIterate(t *testing.T) {
	s := New[uint8]()
	assert.NoError(t, s.InsertRange(RangeFrom[uint8](1, 3)))
	assert.NoError(t, s.InsertRange(RangeFrom[uint8](253, 255)))
	s.Insert(7)

	expected := []uint8{1, 2, 3, 7, 253, 254, 255}

	var got []uint8
	it := s.Iterate()
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, expected, got)
	assert.False(t, it.Next())

	got = got[:0]
	for v := range s.All() {
		got = append(got, v)
	}
	assert.Equal(t, expected, got)

	// early break
	got = got[:0]
	for v := range s.All() {
		if v > 3 {
			break
		}
		got = append(got, v)
	}
	assert.Equal(t, []uint8{1, 2, 3}, got)

	var rr []Range[uint8]
	for r := range s.RangeSeq() {
		rr = append(rr, r)
	}
	assert.Equal(t, s.Ranges(), rr)
}

func TestIterateSnapshot(t *testing.T) {
	s, _ := FromRange(r32(1, 3))
	it := s.Iterate()
	s.Clear()
	assert.NoError(t, s.InsertRange(r32(100, 200)))

	var got []uint32
	for it.Next() {
		got = append(got, it.Value())
	}
	assert.Equal(t, []uint32{1, 2, 3}, got)
}

func TestEmpty(t *testing.T) {
	var s RangeSet[uint64]
	assert.True(t, s.IsEmpty())
	assert.Empty(t, s.Ranges())
	assert.False(t, s.Iterate().Next())
	for range s.All() {
		t.Fatal("empty set yielded a value")
	}

	c := WithCapacity[uint64](16)
	assert.NoError(t, c.InsertRange(RangeFrom[uint64](0, math.MaxUint64)))
	assert.False(t, c.IsEmpty())
	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "{}", c.String())
}

func TestLen(t *testing.T) {
	s := New[uint64]()
	assert.Equal(t, uint64(0), s.Len())
	assert.NoError(t, s.InsertRange(RangeFrom[uint64](10, 19)))
	s.Insert(40)
	assert.Equal(t, uint64(11), s.Len())
	assert.Equal(t, 2, s.NumRanges())

	assert.NoError(t, s.InsertRange(RangeFrom[uint64](0, math.MaxUint64)))
	assert.Equal(t, uint64(math.MaxUint64), s.Len())

	s.Remove(5)
	assert.Equal(t, uint64(math.MaxUint64), s.Len())
}

func TestSetOps(t *testing.T) {
	a, _ := FromRange(r32(1, 10))
	b, _ := FromRange(r32(5, 20))

	u := a.Clone()
	u.InsertSet(b)
	assert.Equal(t, []Range[uint32]{r32(1, 20)}, u.Ranges())
	assert.Equal(t, []Range[uint32]{r32(1, 10)}, a.Ranges())

	d := u.Clone()
	d.RemoveSet(a)
	assert.True(t, d.Equal(func() *RangeSet[uint32] { s, _ := FromRange(r32(11, 20)); return s }()))
	assert.False(t, d.Equal(b))

	d.InsertSet(nil)
	d.RemoveSet(nil)
	assert.Equal(t, "{11-20}", d.String())

	assert.True(t, New[uint32]().Equal(nil))
}

func TestString(t *testing.T) {
	s := New[uint16]()
	assert.NoError(t, s.InsertRange(RangeFrom[uint16](1, 3)))
	s.Insert(7)
	assert.Equal(t, "{1-3, 7}", s.String())
}

// TestRandomOps compares the set against a map of present values.
func TestRandomOps(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	s := New[uint8]()
	model := map[uint8]bool{}

	for i := 0; i < 5000; i++ {
		a, b := uint8(rnd.Intn(256)), uint8(rnd.Intn(256))
		if a > b {
			a, b = b, a
		}
		switch rnd.Intn(4) {
		case 0:
			assert.Equal(t, !model[a], s.Insert(a))
			model[a] = true
		case 1:
			assert.Equal(t, model[a], s.Remove(a))
			delete(model, a)
		case 2:
			assert.NoError(t, s.InsertRange(RangeFrom(a, b)))
			for v := int(a); v <= int(b); v++ {
				model[uint8(v)] = true
			}
		case 3:
			assert.NoError(t, s.RemoveRange(RangeFrom(a, b)))
			for v := int(a); v <= int(b); v++ {
				delete(model, uint8(v))
			}
		}
		checkMinimal(t, s)
		assert.Equal(t, uint64(len(model)), s.Len())
	}
	for v := 0; v < 256; v++ {
		assert.Equal(t, model[uint8(v)], s.Contains(uint8(v)), "value %d", v)
	}
}
