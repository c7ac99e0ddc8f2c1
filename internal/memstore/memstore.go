// Package memstore holds in-memory stores with the same filtering, ordering and
// not-found behaviour as the Mongo repositories. The API server never uses it;
// it backs service and route tests and local tooling.
package memstore

import (
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"speshway-platform/internal/database"
)

// table is a mutex-guarded map of documents keyed by ObjectID.
type table[T any] struct {
	mu   sync.Mutex
	docs map[primitive.ObjectID]T
}

func newTable[T any]() *table[T] {
	return &table[T]{docs: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) get(id string) (T, error) {
	var zero T
	oid, err := database.ParseID(id)
	if err != nil {
		return zero, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	doc, ok := t.docs[oid]
	if !ok {
		return zero, database.ErrNotFound
	}
	return doc, nil
}

func (t *table[T]) put(id primitive.ObjectID, doc T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.docs[id] = doc
}

func (t *table[T]) replace(id primitive.ObjectID, doc T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.docs[id]; !ok {
		return database.ErrNotFound
	}
	t.docs[id] = doc
	return nil
}

func (t *table[T]) remove(id primitive.ObjectID) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.docs[id]; !ok {
		return database.ErrNotFound
	}
	delete(t.docs, id)
	return nil
}

// list returns the documents that pass keep, ordered by less.
func (t *table[T]) list(keep func(T) bool, less func(a, b T) bool) []T {
	t.mu.Lock()
	out := make([]T, 0, len(t.docs))
	for _, doc := range t.docs {
		if keep == nil || keep(doc) {
			out = append(out, doc)
		}
	}
	t.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (t *table[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.docs)
}
