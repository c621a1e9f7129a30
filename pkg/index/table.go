package index

import (
	"sort"
	"strings"
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/constants"
	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/types"
)

// bucket holds the primary keys of every document sharing one composite
// value. The encoded field values are kept alongside the key set so partial
// scans can compare single positions without re-splitting the map key.
type bucket struct {
	values []string
	pks    map[string]struct{}
}

// Table is the maintained mapping of one descriptor: composite value to
// primary-key set, per store, plus a reverse map from primary key to its
// current bucket so removal and relocation stay O(1).
//
// Every mutation sequence (reverse lookup, bucket remove, bucket insert) runs
// under the table's write lock; lookups and scans take the read lock.
type Table struct {
	mu         sync.RWMutex
	desc       Descriptor
	primaryKey string
	fields     []string

	buckets map[string]map[string]*bucket
	reverse map[string]map[string]string
}

// newTable builds the empty table for a validated descriptor.
func newTable(desc Descriptor, primaryKey string) *Table {
	return &Table{
		desc:       desc,
		primaryKey: primaryKey,
		fields:     desc.fields(primaryKey),
		buckets:    make(map[string]map[string]*bucket),
		reverse:    make(map[string]map[string]string),
	}
}

// Descriptor returns the declaration this table maintains.
func (t *Table) Descriptor() Descriptor {
	return t.desc
}

// Name returns the table's index name.
func (t *Table) Name() string {
	return t.desc.DisplayName()
}

// Fields returns the non-primary composite fields in descriptor order.
func (t *Table) Fields() []string {
	out := make([]string, len(t.fields))
	copy(out, t.fields)

	return out
}

// Covers reports whether the table indexes documents of the given store.
func (t *Table) Covers(store string) bool {
	return t.desc.Covers(store)
}

// encode renders the document's composite values in field order. The second
// return is false when the document lacks one of the fields; which field is
// reported alongside.
func (t *Table) encode(doc types.Document) (values []string, missing string, err error) {
	values = make([]string, 0, len(t.fields))

	for _, field := range t.fields {
		v, ok := doc[field]
		if !ok {
			return nil, field, nil
		}

		encoded, encErr := encodeValue(v)
		if encErr != nil {
			return nil, "", encErr
		}

		values = append(values, encoded)
	}

	return values, "", nil
}

// compositeKey joins encoded values into the bucket map key.
func compositeKey(values []string) string {
	return strings.Join(values, constants.CompositeKeySeparator)
}

// Insert indexes the document under its composite value. A document missing
// one of the composite fields fails when the descriptor is bound to the
// store, and is skipped when the descriptor is global. A primary key already
// present under a different composite value is relocated, which keeps the
// one-bucket-per-document invariant even when set overwrites an existing key.
func (t *Table) Insert(store string, pk string, doc types.Document) error {
	values, missing, err := t.encode(doc)
	if err != nil {
		return err
	}

	if missing != "" {
		if t.desc.Store != "" {
			return ewrap.Wrap(sentinel.ErrMissingIndexField, t.Name()+": "+missing)
		}

		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	return t.insertLocked(store, pk, values)
}

// Reconcile moves the primary key from its old composite bucket to the one
// matching the new document when any indexed field changed. A nil old
// snapshot skips reconciliation entirely; the caller decides how to obtain
// snapshots. The returned bool reports whether the table was touched.
func (t *Table) Reconcile(store string, pk string, old, updated types.Document) (bool, error) {
	if old == nil {
		return false, nil
	}

	oldValues, oldMissing, err := t.encode(old)
	if err != nil {
		return false, err
	}

	newValues, newMissing, err := t.encode(updated)
	if err != nil {
		return false, err
	}

	if newMissing != "" && t.desc.Store != "" {
		return false, ewrap.Wrap(sentinel.ErrMissingIndexField, t.Name()+": "+newMissing)
	}

	// Unchanged composite values need no maintenance.
	if oldMissing == "" && newMissing == "" && compositeKey(oldValues) == compositeKey(newValues) {
		return false, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.removeLocked(store, pk)

	if newMissing != "" {
		// The updated document left the index's domain; removal is all.
		return true, nil
	}

	err = t.insertLocked(store, pk, newValues)
	if err != nil {
		return false, err
	}

	return true, nil
}

// Remove drops the primary key from whichever bucket holds it, pruning the
// bucket when it empties. Reports whether the key was present.
func (t *Table) Remove(store string, pk string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.removeLocked(store, pk)
}

// Contains reports whether the primary key is currently indexed for the store.
func (t *Table) Contains(store string, pk string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.reverse[store][pk]

	return ok
}

// Lookup returns the sorted primary keys of the bucket matching the full
// composite value list.
func (t *Table) Lookup(store string, values []string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	b, ok := t.buckets[store][compositeKey(values)]
	if !ok {
		return nil
	}

	return sortedKeys(b.pks)
}

// Scan returns the sorted union of primary keys from every bucket whose
// composite values match the supplied positions. The descriptor's ordered
// key design makes the supplied subset a (possibly partial) tuple prefix;
// only buckets of this table are visited, never the documents themselves.
func (t *Table) Scan(store string, positions map[int]string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]struct{})

	for _, b := range t.buckets[store] {
		matched := true

		for pos, want := range positions {
			if pos >= len(b.values) || b.values[pos] != want {
				matched = false

				break
			}
		}

		if !matched {
			continue
		}

		for pk := range b.pks {
			out[pk] = struct{}{}
		}
	}

	return sortedKeys(out)
}

// Match projects the filter onto the table's composite fields and returns
// the matching primary keys. When the filter pins every field, this is a
// single bucket lookup; otherwise it is a partial-match scan over the
// table's buckets. Predicate filter values cannot be encoded and are left
// for the caller to match on the materialized documents.
func (t *Table) Match(store string, filter types.Filter) ([]string, error) {
	positions := make(map[int]string, len(t.fields))

	for i, field := range t.fields {
		v, ok := filter[field]
		if !ok {
			continue
		}

		if _, isPredicate := v.(func(any) bool); isPredicate {
			continue
		}

		encoded, err := encodeValue(v)
		if err != nil {
			return nil, err
		}

		positions[i] = encoded
	}

	if len(positions) == len(t.fields) {
		values := make([]string, len(t.fields))
		for i := range t.fields {
			values[i] = positions[i]
		}

		return t.Lookup(store, values), nil
	}

	return t.Scan(store, positions), nil
}

// Stats describes one table for introspection.
type Stats struct {
	Name    string   `json:"name"`
	Keys    []string `json:"keys"`
	Store   string   `json:"store,omitempty"`
	Unique  bool     `json:"unique"`
	Buckets int      `json:"buckets"`
	Entries int      `json:"entries"`
}

// Snapshot returns bucket and entry counts across all stores.
func (t *Table) Snapshot() Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	info := Stats{
		Name:   t.Name(),
		Keys:   append([]string(nil), t.desc.Keys...),
		Store:  t.desc.Store,
		Unique: t.desc.Unique,
	}

	for _, store := range t.buckets {
		info.Buckets += len(store)

		for _, b := range store {
			info.Entries += len(b.pks)
		}
	}

	return info
}

// insertLocked adds pk under the composite values, relocating it first when
// it already lives in a different bucket. Caller holds the write lock.
func (t *Table) insertLocked(store string, pk string, values []string) error {
	ck := compositeKey(values)

	rev, ok := t.reverse[store]
	if !ok {
		rev = make(map[string]string)
		t.reverse[store] = rev
	}

	if current, indexed := rev[pk]; indexed {
		if current == ck {
			return nil
		}

		t.removeLocked(store, pk)
	}

	bkts, ok := t.buckets[store]
	if !ok {
		bkts = make(map[string]*bucket)
		t.buckets[store] = bkts
	}

	b, ok := bkts[ck]
	if !ok {
		b = &bucket{
			values: append([]string(nil), values...),
			pks:    make(map[string]struct{}),
		}
		bkts[ck] = b
	}

	if t.desc.Unique && len(b.pks) > 0 {
		if _, same := b.pks[pk]; !same {
			return ewrap.Wrap(sentinel.ErrUniqueViolation, t.Name())
		}
	}

	b.pks[pk] = struct{}{}
	rev[pk] = ck

	return nil
}

// removeLocked drops pk from its current bucket. Caller holds the write lock.
func (t *Table) removeLocked(store string, pk string) bool {
	rev, ok := t.reverse[store]
	if !ok {
		return false
	}

	ck, ok := rev[pk]
	if !ok {
		return false
	}

	delete(rev, pk)

	if b, ok := t.buckets[store][ck]; ok {
		delete(b.pks, pk)

		if len(b.pks) == 0 {
			delete(t.buckets[store], ck)
		}
	}

	return true
}

// sortedKeys flattens a key set into a sorted slice for deterministic output.
func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}
