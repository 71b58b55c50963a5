package charset

import "fmt"

// RuneRange is an inclusive range of runes [Lo, Hi].
type RuneRange struct {
	Lo rune
	Hi rune
}

func (r RuneRange) String() string {
	return fmt.Sprintf("%U-%U", r.Lo, r.Hi)
}

func (r RuneRange) Contains(c rune) bool {
	return r.Lo <= c && c <= r.Hi
}
