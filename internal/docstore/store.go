// Package docstore is the document-store substrate behind the shared remote cache.
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
)

// ErrPermissionDenied is returned by stores that enforce access rules
var ErrPermissionDenied = errors.New("permission denied")

// Document is a flat set of JSON-encoded fields
type Document map[string]json.RawMessage

// Store defines the document operations the shared cache relies on
type Store interface {
	GetDoc(ctx context.Context, collection, id string) (Document, bool, error)
	// SetDoc writes doc under id. With merge the fields are merged into the existing
	// document, otherwise the document is replaced.
	SetDoc(ctx context.Context, collection, id string, doc Document, merge bool) error
	// QueryOrderedLimited returns up to limit documents ordered by the numeric orderField.
	// Documents without the field sort as zero.
	QueryOrderedLimited(ctx context.Context, collection, orderField string, desc bool, limit int) ([]Document, error)
}

// Encode builds a Document from field values
func Encode(fields map[string]any) (Document, error) {
	doc := make(Document, len(fields))
	for k, v := range fields {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		doc[k] = raw
	}
	return doc, nil
}

// Number reads a numeric field, returning 0 when absent or not a number
func (d Document) Number(field string) float64 {
	raw, ok := d[field]
	if !ok {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0
	}
	return n
}

// String reads a string field, returning "" when absent or not a string
func (d Document) String(field string) string {
	raw, ok := d[field]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// Decode unmarshals the whole document into v
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func orderAndLimit(docs []Document, orderField string, desc bool, limit int) []Document {
	sort.SliceStable(docs, func(i, j int) bool {
		if desc {
			return docs[i].Number(orderField) > docs[j].Number(orderField)
		}
		return docs[i].Number(orderField) < docs[j].Number(orderField)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs
}
