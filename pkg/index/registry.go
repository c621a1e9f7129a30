package index

import (
	"sync"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/types"
)

// Registry owns every registered index table in registration order. The
// order matters: it is the final tie-break of the selection algorithm, which
// keeps search deterministic across repeated calls.
type Registry struct {
	mu         sync.RWMutex
	primaryKey string
	tables     []*Table
	names      map[string]struct{}
}

// NewRegistry creates an empty registry for the given primary key field.
func NewRegistry(primaryKey string) *Registry {
	return &Registry{
		primaryKey: primaryKey,
		names:      make(map[string]struct{}),
	}
}

// PrimaryKey returns the primary key field every descriptor must include.
func (r *Registry) PrimaryKey() string {
	return r.primaryKey
}

// Register validates the descriptor and creates its table. Descriptors
// registered after documents already exist do not backfill; the caller must
// reindex manually.
func (r *Registry) Register(desc Descriptor) (*Table, error) {
	err := desc.validate(r.primaryKey)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := desc.DisplayName()
	if _, dup := r.names[name]; dup {
		return nil, ewrap.Wrap(sentinel.ErrDuplicateIndex, name)
	}

	table := newTable(desc, r.primaryKey)
	r.names[name] = struct{}{}
	r.tables = append(r.tables, table)

	return table, nil
}

// Tables returns the registered tables in registration order.
func (r *Registry) Tables() []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, len(r.tables))
	copy(out, r.tables)

	return out
}

// TablesFor returns the tables covering the given store, in registration order.
func (r *Registry) TablesFor(store string) []*Table {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Table, 0, len(r.tables))

	for _, t := range r.tables {
		if t.Covers(store) {
			out = append(out, t)
		}
	}

	return out
}

// Select picks the table for a search filter over the given store:
// the highest count of filter fields present in the descriptor's keys wins,
// ties go to the descriptor with the fewest total keys (most selective),
// remaining ties to the earliest registration. A filter overlapping no
// descriptor yields ErrIndexNotFound; the core never scans unindexed data.
func (r *Registry) Select(store string, filter types.Filter) (*Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var (
		best        *Table
		bestOverlap int
	)

	for _, t := range r.tables {
		if !t.Covers(store) {
			continue
		}

		overlap := 0

		for _, key := range t.desc.Keys {
			if _, ok := filter[key]; ok {
				overlap++
			}
		}

		if overlap == 0 {
			continue
		}

		switch {
		case best == nil,
			overlap > bestOverlap,
			overlap == bestOverlap && len(t.desc.Keys) < len(best.desc.Keys):
			best = t
			bestOverlap = overlap
		}
	}

	if best == nil {
		return nil, sentinel.ErrIndexNotFound
	}

	return best, nil
}
