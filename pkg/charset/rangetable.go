package charset

import "unicode"

// FromRangeTable returns a set holding every rune of rt.
func FromRangeTable(rt *unicode.RangeTable, opts ...Option) *CharSet {
	c := New(opts...)
	c.InsertRangeTable(rt)
	return c
}

// InsertRangeTable adds every rune of rt. Surrogates listed in rt, as in
// unicode.Cs, are skipped.
func (c *CharSet) InsertRangeTable(rt *unicode.RangeTable) {
	if rt == nil {
		return
	}
	for _, r16 := range rt.R16 {
		c.insertStride(rune(r16.Lo), rune(r16.Hi), rune(r16.Stride))
	}
	for _, r32 := range rt.R32 {
		c.insertStride(rune(r32.Lo), rune(r32.Hi), rune(r32.Stride))
	}
}

func (c *CharSet) insertStride(lo, hi, stride rune) {
	if stride != 1 {
		for r := lo; r <= hi && stride > 0; r += stride {
			c.Insert(r)
		}
		return
	}
	if lo >= surrogateMin && lo <= surrogateMax {
		lo = surrogateMax + 1
	}
	if hi >= surrogateMin && hi <= surrogateMax {
		hi = surrogateMin - 1
	}
	hi = min(hi, unicode.MaxRune)
	if lo > hi {
		return
	}
	// endpoints are scalar values now
	_ = c.InsertRange(lo, hi)
}

// RangeTable returns c as a unicode.RangeTable with stride 1 entries,
// usable with unicode.Is.
func (c *CharSet) RangeTable() *unicode.RangeTable {
	rt := &unicode.RangeTable{}
	for r := range c.RangeSeq() {
		if r.Lo <= 0xFFFF {
			hi := min(r.Hi, 0xFFFF)
			rt.R16 = append(rt.R16, unicode.Range16{Lo: uint16(r.Lo), Hi: uint16(hi), Stride: 1})
			if hi <= unicode.MaxLatin1 {
				rt.LatinOffset++
			}
			if r.Hi <= 0xFFFF {
				continue
			}
			r.Lo = 0x10000
		}
		rt.R32 = append(rt.R32, unicode.Range32{Lo: uint32(r.Lo), Hi: uint32(r.Hi), Stride: 1})
	}
	return rt
}
