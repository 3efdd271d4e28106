package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/data/redisStore"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/pkg/logger_i"
)

// RedisDocumentStore keeps one redis list per job, one JSON encoded document per entry.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context, cfg config.RedisConfig) *RedisDocumentStore {
	internal := redisStore.GetRedisStore(ctx, cfg, config.RedisDocumentStore)
	if internal == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  internal,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) AppendDocuments(ctx context.Context, jobId string, docs []commonModels.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)

	values := make([]interface{}, 0, len(docs))
	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
		values = append(values, data)
	}

	if err := s.store.ListPush(ctx, documentsKey(jobId), config.RedisDocumentStoreTTL, values...); err != nil {
		log.Error("Error saving documents", "error", err)
		return err
	}
	log.Debug("Saved documents", "count", len(docs))
	return nil
}

func (s *RedisDocumentStore) GetDocuments(ctx context.Context, jobId string) ([]commonModels.Document, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "job Id", jobId)
	log.Debug("Getting documents")

	raw, err := s.store.ListGetAll(ctx, documentsKey(jobId))
	if err != nil {
		log.Error("Error reading documents", "error", err)
		return nil, err
	}

	docs := make([]commonModels.Document, 0, len(raw))
	for _, entry := range raw {
		var doc commonModels.Document
		if err := json.Unmarshal([]byte(entry), &doc); err != nil {
			return nil, fmt.Errorf("stored document is not valid json: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *RedisDocumentStore) DeleteDocuments(ctx context.Context, jobId string) {
	if err := s.store.Del(ctx, documentsKey(jobId)); err != nil {
		s.logger.Error("Error deleting documents", "jobId", jobId, "error", err)
	}
}

func documentsKey(jobId string) string {
	return "documents:" + jobId
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
