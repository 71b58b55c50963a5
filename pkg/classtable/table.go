// Package classtable keeps named character classes, each a CharSet with
// labels, and answers which classes hold a rune.
package classtable

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"github.com/henderiw/charset/pkg/charset"
	"k8s.io/apimachinery/pkg/labels"
)

type Table interface {
	Get(name string) (Entry, error)
	Claim(name string, set *charset.CharSet, labels labels.Set) error
	Update(name string, set *charset.CharSet, labels labels.Set) error
	Release(name string) error

	Count() int
	Has(name string) bool

	GetAll() Entries
	GetByLabel(selector labels.Selector) Entries
	// Lookup returns the classes holding r.
	Lookup(r rune) Entries
	// Union returns the union of the classes matching selector.
	Union(selector labels.Selector) *charset.CharSet
}

// ValidationFn is called on every Claim and Update, not on init entries.
type ValidationFn func(name string, set *charset.CharSet) error

type Option func(*table)

func WithLogger(l logr.Logger) Option {
	return func(r *table) { r.log = l }
}

func New(initEntries map[string]Entry, v ValidationFn, opts ...Option) (Table, error) {
	r := &table{
		m:          new(sync.RWMutex),
		table:      map[string]entry{},
		validateFn: v,
		log:        logr.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}

	var errm error
	for name, e := range initEntries {
		if e == nil {
			errm = errors.Join(errm, fmt.Errorf("class %q has no entry", name))
			continue
		}
		if err := r.validate(name, e.Set(), true); err != nil {
			errm = errors.Join(errm, err)
			continue
		}
		if err := r.add(newEntry(name, e.Set(), e.Labels()), true); err != nil {
			errm = errors.Join(errm, err)
		}
	}
	return r, errm
}

type table struct {
	m          *sync.RWMutex
	table      map[string]entry
	validateFn ValidationFn
	log        logr.Logger
}

func (r *table) validate(name string, set *charset.CharSet, init bool) error {
	if name == "" {
		return fmt.Errorf("class name cannot be empty")
	}
	if set == nil {
		return fmt.Errorf("class %q has no set", name)
	}
	if r.validateFn != nil && !init {
		if err := r.validateFn(name, set); err != nil {
			return err
		}
	}
	return nil
}

func (r *table) Get(name string) (Entry, error) {
	r.m.RLock()
	defer r.m.RUnlock()

	e, ok := r.table[name]
	if !ok {
		return nil, fmt.Errorf("no class found for: %s", name)
	}
	return newEntry(e.name, e.set, e.labels), nil
}

func (r *table) Claim(name string, set *charset.CharSet, labels labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(name, set, false); err != nil {
		return err
	}
	return r.add(newEntry(name, set, labels), false)
}

func (r *table) Update(name string, set *charset.CharSet, labels labels.Set) error {
	r.m.Lock()
	defer r.m.Unlock()

	if err := r.validate(name, set, false); err != nil {
		return err
	}
	if _, ok := r.table[name]; !ok {
		return fmt.Errorf("class %s not found", name)
	}
	r.table[name] = newEntry(name, set, labels)
	r.log.V(1).Info("updated class", "name", name, "runes", set.Len())
	return nil
}

func (r *table) Release(name string) error {
	r.m.Lock()
	defer r.m.Unlock()

	if _, ok := r.table[name]; !ok {
		return fmt.Errorf("class %s not found", name)
	}
	delete(r.table, name)
	r.log.V(1).Info("released class", "name", name)
	return nil
}

func (r *table) add(e entry, init bool) error {
	if _, ok := r.table[e.name]; ok {
		return fmt.Errorf("class %s already exists", e.name)
	}
	r.table[e.name] = e
	r.log.V(1).Info("claimed class", "name", e.name, "runes", e.set.Len(), "init", init)
	return nil
}

func (r *table) Count() int {
	r.m.RLock()
	defer r.m.RUnlock()

	return len(r.table)
}

func (r *table) Has(name string) bool {
	r.m.RLock()
	defer r.m.RUnlock()

	_, ok := r.table[name]
	return ok
}

func (r *table) GetAll() Entries {
	return r.filter(func(entry) bool { return true })
}

func (r *table) GetByLabel(selector labels.Selector) Entries {
	if selector == nil {
		selector = labels.Everything()
	}
	return r.filter(func(e entry) bool { return selector.Matches(e.labels) })
}

func (r *table) Lookup(c rune) Entries {
	return r.filter(func(e entry) bool { return e.set.Contains(c) })
}

func (r *table) Union(selector labels.Selector) *charset.CharSet {
	if selector == nil {
		selector = labels.Everything()
	}
	r.m.RLock()
	defer r.m.RUnlock()

	u := charset.New()
	for _, e := range r.table {
		if selector.Matches(e.labels) {
			u.InsertSet(e.set)
		}
	}
	return u
}

// filter returns copies of the entries matching fn, sorted by name.
func (r *table) filter(fn func(e entry) bool) Entries {
	r.m.RLock()
	defer r.m.RUnlock()

	names := make([]string, 0, len(r.table))
	for name, e := range r.table {
		if fn(e) {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	entries := make(Entries, 0, len(names))
	for _, name := range names {
		e := r.table[name]
		entries = append(entries, newEntry(e.name, e.set, e.labels))
	}
	return entries
}
