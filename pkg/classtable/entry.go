package classtable

import (
	"fmt"

	"github.com/henderiw/charset/pkg/charset"
	"k8s.io/apimachinery/pkg/labels"
)

type Entry interface {
	Name() string
	// Set returns a copy of the class.
	Set() *charset.CharSet
	Labels() labels.Set
	String() string
}

type entry struct {
	name   string
	set    *charset.CharSet
	labels labels.Set
}

type Entries []Entry

func (r entry) Name() string          { return r.name }
func (r entry) Set() *charset.CharSet { return r.set.Clone() }
func (r entry) Labels() labels.Set    { return labels.Merge(nil, r.labels) }
func (r entry) String() string {
	return fmt.Sprintf("name: %s, set: %s, labels: %s", r.name, r.set, r.labels.String())
}

func NewEntry(name string, set *charset.CharSet, l labels.Set) Entry {
	return newEntry(name, set, l)
}

func newEntry(name string, set *charset.CharSet, l labels.Set) entry {
	if set == nil {
		set = charset.New()
	}
	return entry{
		name:   name,
		set:    set.Clone(),
		labels: labels.Merge(nil, l),
	}
}
