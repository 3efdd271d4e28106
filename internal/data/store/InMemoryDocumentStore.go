package store

import (
	"context"
	"sync"

	"github.com/akolanti/DocIngest/internal/domain/commonModels"
)

type InMemoryDocumentStore struct {
	docLock *sync.RWMutex
	docMap  map[string][]commonModels.Document
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		docLock: new(sync.RWMutex),
		docMap:  make(map[string][]commonModels.Document),
	}
}

func (store *InMemoryDocumentStore) AppendDocuments(ctx context.Context, jobId string, docs []commonModels.Document) error {
	store.docLock.Lock()
	defer store.docLock.Unlock()
	store.docMap[jobId] = append(store.docMap[jobId], docs...)
	inMemLogger.Debug("Saved documents to store", "jobId", jobId, "count", len(docs))
	return nil
}

// GetDocuments returns a copy; an unknown job yields an empty slice.
func (store *InMemoryDocumentStore) GetDocuments(ctx context.Context, jobId string) ([]commonModels.Document, error) {
	store.docLock.RLock()
	defer store.docLock.RUnlock()
	docs := store.docMap[jobId]
	out := make([]commonModels.Document, len(docs))
	copy(out, docs)
	return out, nil
}

func (store *InMemoryDocumentStore) DeleteDocuments(ctx context.Context, jobId string) {
	store.docLock.Lock()
	defer store.docLock.Unlock()
	delete(store.docMap, jobId)
}
