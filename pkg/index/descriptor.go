// Package index implements the secondary-index subsystem: declarative
// composite-key descriptors, the maintained bucket tables mapping composite
// field values to primary keys, and the best-overlap selection used by
// search. Tables reference documents by primary key only; they never own the
// documents themselves.
package index

import (
	"strings"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/smartcache/internal/constants"
	"github.com/hyp3rd/smartcache/internal/libs/serializer"
	"github.com/hyp3rd/smartcache/internal/sentinel"
)

// Descriptor declares one composite index: an ordered field list that must
// include the primary key. Descriptors are registered once, before any
// document enters the cache; registering one later does not backfill the
// table.
type Descriptor struct {
	// Name identifies the index. Derived from Keys when empty.
	Name string
	// Keys is the ordered composite field list, primary key included.
	Keys []string
	// Store binds the index to a single cache name. Empty means every store.
	Store string
	// Unique rejects inserts that would map a second primary key to the same
	// composite value.
	Unique bool
}

// DisplayName returns the explicit name or one derived from the key list.
func (d Descriptor) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}

	return constants.IndexNamePrefix + strings.Join(d.Keys, "_")
}

// Covers reports whether the descriptor applies to the given store.
func (d Descriptor) Covers(store string) bool {
	return d.Store == "" || d.Store == store
}

// validate checks the key list: non-empty, no duplicates, primary key present.
func (d Descriptor) validate(primaryKey string) error {
	if len(d.Keys) == 0 {
		return ewrap.Wrap(sentinel.ErrInvalidIndexKeys, "empty key list")
	}

	seen := make(map[string]struct{}, len(d.Keys))
	hasPrimary := false

	for _, key := range d.Keys {
		if key == "" {
			return ewrap.Wrap(sentinel.ErrInvalidIndexKeys, "empty field name")
		}

		if _, dup := seen[key]; dup {
			return ewrap.Wrap(sentinel.ErrInvalidIndexKeys, "duplicate field "+key)
		}

		seen[key] = struct{}{}

		if key == primaryKey {
			hasPrimary = true
		}
	}

	if !hasPrimary {
		return ewrap.Wrap(sentinel.ErrInvalidIndexKeys, "primary key "+primaryKey+" not in key list")
	}

	return nil
}

// fields returns the non-primary keys in declaration order. Their values form
// the composite bucket key.
func (d Descriptor) fields(primaryKey string) []string {
	out := make([]string, 0, len(d.Keys)-1)

	for _, key := range d.Keys {
		if key != primaryKey {
			out = append(out, key)
		}
	}

	return out
}

// compositeCodec canonically encodes single field values for bucket keys.
// JSON keeps scalars of different types distinct ("1" vs 1) and is stable for
// the exact-match semantics the index supports.
var compositeCodec serializer.ISerializer = &serializer.DefaultJSONSerializer{}

// encodeValue renders one field value in its canonical composite form.
func encodeValue(v any) (string, error) {
	data, err := compositeCodec.Marshal(v)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
