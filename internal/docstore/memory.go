package docstore

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (m *MemoryStore) GetDoc(_ context.Context, collection, id string) (Document, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, false, nil
	}
	return copyDoc(doc), true, nil
}

func (m *MemoryStore) SetDoc(_ context.Context, collection, id string, doc Document, merge bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.collections[collection]
	if !ok {
		coll = make(map[string]Document)
		m.collections[collection] = coll
	}

	existing, ok := coll[id]
	if !merge || !ok {
		coll[id] = copyDoc(doc)
		return nil
	}
	for k, v := range doc {
		existing[k] = append([]byte(nil), v...)
	}
	return nil
}

func (m *MemoryStore) QueryOrderedLimited(_ context.Context, collection, orderField string, desc bool, limit int) ([]Document, error) {
	m.mu.RLock()
	docs := make([]Document, 0, len(m.collections[collection]))
	for _, doc := range m.collections[collection] {
		docs = append(docs, copyDoc(doc))
	}
	m.mu.RUnlock()

	return orderAndLimit(docs, orderField, desc, limit), nil
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = append([]byte(nil), v...)
	}
	return out
}
