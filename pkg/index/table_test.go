package index

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hyp3rd/smartcache/internal/sentinel"
	"github.com/hyp3rd/smartcache/types"
)

func newTestTable(t *testing.T, desc Descriptor) *Table {
	t.Helper()

	if err := desc.validate("_id"); err != nil {
		t.Fatalf("invalid descriptor: %v", err)
	}

	return newTable(desc, "_id")
}

func TestTableInsertAndMatch(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	docs := map[string]types.Document{
		"a": {"_id": "a", "model": "x"},
		"b": {"_id": "b", "model": "x"},
		"c": {"_id": "c", "model": "y"},
	}
	for pk, doc := range docs {
		if err := table.Insert("vehicles", pk, doc); err != nil {
			t.Fatalf("insert %s: %v", pk, err)
		}
	}

	got, err := table.Match("vehicles", types.Filter{"model": "x"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}

	got, err = table.Match("vehicles", types.Filter{"model": "z"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("expected no matches, got %v", got)
	}
}

func TestTableStoresAreIsolated(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	if err := table.Insert("vehicles", "a", types.Document{"_id": "a", "model": "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := table.Insert("archive", "b", types.Document{"_id": "b", "model": "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := table.Match("vehicles", types.Filter{"model": "x"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a] in vehicles, got %v", got)
	}
}

func TestTableCompositeValuesKeepTypesDistinct(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "code"}})

	if err := table.Insert("s", "a", types.Document{"_id": "a", "code": 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if err := table.Insert("s", "b", types.Document{"_id": "b", "code": "1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := table.Match("s", types.Filter{"code": 1})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected numeric code to match only a, got %v", got)
	}
}

func TestTableInsertRelocatesExistingKey(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	if err := table.Insert("s", "a", types.Document{"_id": "a", "model": "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Overwriting the same key with a different composite value moves it.
	if err := table.Insert("s", "a", types.Document{"_id": "a", "model": "y"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, _ := table.Match("s", types.Filter{"model": "x"})
	if len(got) != 0 {
		t.Errorf("expected old bucket to be empty, got %v", got)
	}

	got, _ = table.Match("s", types.Filter{"model": "y"})
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a] in new bucket, got %v", got)
	}

	snapshot := table.Snapshot()
	if snapshot.Entries != 1 || snapshot.Buckets != 1 {
		t.Errorf("expected one entry in one bucket, got %+v", snapshot)
	}
}

func TestTableMissingField(t *testing.T) {
	global := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	// Global descriptors skip documents lacking the field.
	if err := global.Insert("s", "a", types.Document{"_id": "a"}); err != nil {
		t.Fatalf("expected skip, got %v", err)
	}

	if global.Contains("s", "a") {
		t.Error("expected document without the field to stay unindexed")
	}

	bound := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}, Store: "s"})

	err := bound.Insert("s", "a", types.Document{"_id": "a"})
	if !errors.Is(err, sentinel.ErrMissingIndexField) {
		t.Errorf("expected missing field error from store-bound index, got %v", err)
	}
}

func TestTableReconcile(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	old := types.Document{"_id": "a", "model": "x"}
	if err := table.Insert("s", "a", old); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Nil snapshot: nothing to diff, table untouched.
	moved, err := table.Reconcile("s", "a", nil, types.Document{"_id": "a", "model": "y"})
	if err != nil || moved {
		t.Errorf("expected nil snapshot to skip, got moved=%v err=%v", moved, err)
	}

	// Unchanged composite value: no-op.
	moved, err = table.Reconcile("s", "a", old, types.Document{"_id": "a", "model": "x", "year": 2020})
	if err != nil || moved {
		t.Errorf("expected unchanged value to be a no-op, got moved=%v err=%v", moved, err)
	}

	// Changed value: relocation.
	moved, err = table.Reconcile("s", "a", old, types.Document{"_id": "a", "model": "y"})
	if err != nil || !moved {
		t.Fatalf("expected relocation, got moved=%v err=%v", moved, err)
	}

	got, _ := table.Match("s", types.Filter{"model": "y"})
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Errorf("expected [a] under new value, got %v", got)
	}

	// Field dropped by the update: entry leaves the index.
	moved, err = table.Reconcile("s", "a", types.Document{"_id": "a", "model": "y"}, types.Document{"_id": "a"})
	if err != nil || !moved {
		t.Fatalf("expected removal, got moved=%v err=%v", moved, err)
	}

	if table.Contains("s", "a") {
		t.Error("expected key to leave the index when the field was dropped")
	}
}

func TestTableRemove(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model"}})

	if err := table.Insert("s", "a", types.Document{"_id": "a", "model": "x"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	if !table.Remove("s", "a") {
		t.Error("expected removal of an indexed key to report true")
	}

	if table.Remove("s", "a") {
		t.Error("expected removal of an absent key to report false")
	}

	snapshot := table.Snapshot()
	if snapshot.Buckets != 0 {
		t.Errorf("expected empty buckets to be pruned, got %+v", snapshot)
	}
}

func TestTableUnique(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "vin"}, Unique: true})

	if err := table.Insert("s", "a", types.Document{"_id": "a", "vin": "V1"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	// Same key, same value: idempotent.
	if err := table.Insert("s", "a", types.Document{"_id": "a", "vin": "V1"}); err != nil {
		t.Fatalf("reinsert: %v", err)
	}

	err := table.Insert("s", "b", types.Document{"_id": "b", "vin": "V1"})
	if !errors.Is(err, sentinel.ErrUniqueViolation) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestTablePartialScan(t *testing.T) {
	table := newTestTable(t, Descriptor{Keys: []string{"_id", "model", "year"}})

	rows := []types.Document{
		{"_id": "a", "model": "x", "year": 2020},
		{"_id": "b", "model": "x", "year": 2021},
		{"_id": "c", "model": "y", "year": 2020},
	}
	for _, doc := range rows {
		pk, _ := doc.PrimaryKey("_id")
		if err := table.Insert("s", pk, doc); err != nil {
			t.Fatalf("insert %s: %v", pk, err)
		}
	}

	// Partial filter pins only the first composite position.
	got, err := table.Match("s", types.Filter{"model": "x"})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("expected [a b], got %v", got)
	}

	// Pinning only the second position still works: scans compare positions,
	// not prefixes.
	got, err = table.Match("s", types.Filter{"year": 2020})
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	if !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("expected [a c], got %v", got)
	}
}
