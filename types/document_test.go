package types

import (
	"errors"
	"testing"

	"github.com/hyp3rd/smartcache/internal/sentinel"
)

func TestDocumentPrimaryKey(t *testing.T) {
	tests := []struct {
		name   string
		doc    Document
		wantPk string
		wantOk bool
	}{
		{name: "string value", doc: Document{"_id": "a"}, wantPk: "a", wantOk: true},
		{name: "missing field", doc: Document{"model": "x"}},
		{name: "non-string value", doc: Document{"_id": 7}},
		{name: "blank value", doc: Document{"_id": "   "}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pk, ok := test.doc.PrimaryKey("_id")
			if pk != test.wantPk || ok != test.wantOk {
				t.Errorf("expected (%q, %v), got (%q, %v)", test.wantPk, test.wantOk, pk, ok)
			}
		})
	}
}

func TestDocumentValidate(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		key     string
		wantErr error
	}{
		{name: "valid", doc: Document{"_id": "a"}, key: "a"},
		{name: "nil document", doc: nil, key: "a", wantErr: sentinel.ErrNilValue},
		{name: "missing primary key", doc: Document{"model": "x"}, key: "a", wantErr: sentinel.ErrMissingPrimaryKey},
		{name: "mismatch", doc: Document{"_id": "b"}, key: "a", wantErr: sentinel.ErrPrimaryKeyMismatch},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.doc.Validate("_id", test.key)
			if !errors.Is(err, test.wantErr) {
				t.Errorf("expected %v, got %v", test.wantErr, err)
			}
		})
	}
}

func TestDocumentClone(t *testing.T) {
	doc := Document{"_id": "a", "model": "x"}
	clone := doc.Clone()

	clone["model"] = "y"

	if doc["model"] != "x" {
		t.Errorf("expected original to be untouched, got %v", doc["model"])
	}

	if Document(nil).Clone() != nil {
		t.Error("expected nil clone of nil document")
	}
}

func TestDocumentMatches(t *testing.T) {
	doc := Document{"_id": "a", "model": "x", "year": 2021}

	if !doc.Matches(Filter{"model": "x"}) {
		t.Error("expected exact match")
	}

	if doc.Matches(Filter{"model": "y"}) {
		t.Error("expected mismatch")
	}

	if doc.Matches(Filter{"color": "red"}) {
		t.Error("expected missing field to fail the match")
	}

	recent := func(v any) bool {
		year, ok := v.(int)

		return ok && year >= 2020
	}
	if !doc.Matches(Filter{"model": "x", "year": recent}) {
		t.Error("expected predicate to match")
	}

	old := func(v any) bool {
		year, ok := v.(int)

		return ok && year < 2000
	}
	if doc.Matches(Filter{"year": old}) {
		t.Error("expected predicate to reject")
	}

	if !doc.Matches(Filter{}) {
		t.Error("expected empty filter to match everything")
	}
}

func TestDocumentSize(t *testing.T) {
	doc := Document{"_id": "a", "model": "x"}

	size, err := doc.Size()
	if err != nil {
		t.Fatalf("size: %v", err)
	}

	if size <= 0 {
		t.Errorf("expected positive size, got %d", size)
	}
}
