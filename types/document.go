package types

// Document represents a record stored under a primary key. It is a plain
// field mapping owned by the caller; the cache never persists it, only
// indexes it.

import (
	"strings"
	"sync"

	"github.com/ugorji/go/codec"

	"github.com/hyp3rd/smartcache/internal/sentinel"
)

var (
	// buf is a buffer used to calculate the size of a document.
	buf []byte

	// encoderPool is a pool of encoders used to calculate the size of a document.
	encoderPool = sync.Pool{
		New: func() any {
			return codec.NewEncoderBytes(&buf, &codec.CborHandle{})
		},
	}
)

// Document is a field-name to value mapping. Every document must carry the
// primary key field with a string value; documents covered by a store-bound
// index must carry every field that index declares.
type Document map[string]any

// Filter is an exact-match search query: field name to expected value.
// A value of type func(any) bool is treated as a predicate instead of an
// exact match.
type Filter map[string]any

// Clone returns a shallow snapshot of the document's fields. The cache takes
// one on every read to diff indexed fields during a later update.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}

	return out
}

// PrimaryKey returns the document's primary key value under the given field
// name. The second return is false when the field is absent or not a string.
func (d Document) PrimaryKey(field string) (string, bool) {
	v, ok := d[field]
	if !ok {
		return "", false
	}

	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}

	return s, true
}

// Validate checks the document against the key it is stored under.
// It returns an error when the primary key field is missing, not a string,
// or does not match the storage key.
func (d Document) Validate(primaryKey, key string) error {
	if d == nil {
		return sentinel.ErrNilValue
	}

	pk, ok := d.PrimaryKey(primaryKey)
	if !ok {
		return sentinel.ErrMissingPrimaryKey
	}

	if pk != key {
		return sentinel.ErrPrimaryKeyMismatch
	}

	return nil
}

// Matches reports whether every filter entry matches the document.
// Predicate values receive the document's field value.
func (d Document) Matches(filter Filter) bool {
	for field, want := range filter {
		got := d[field]

		if pred, ok := want.(func(any) bool); ok {
			if !pred(got) {
				return false
			}

			continue
		}

		if got != want {
			return false
		}
	}

	return true
}

// Size returns the size of the document in bytes, computed by CBOR-encoding
// its fields.
func (d Document) Size() (int64, error) {
	enc, ok := encoderPool.Get().(*codec.Encoder)
	if !ok {
		return 0, sentinel.ErrInvalidSize
	}
	defer encoderPool.Put(enc)

	if err := enc.Encode(map[string]any(d)); err != nil {
		return 0, sentinel.ErrInvalidSize
	}

	size := int64(len(buf))
	buf = buf[:0]

	return size, nil
}
