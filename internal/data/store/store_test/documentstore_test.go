package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/DocIngest/internal/config"
	"github.com/akolanti/DocIngest/internal/data/redisStore"
	"github.com/akolanti/DocIngest/internal/data/store"
	"github.com/akolanti/DocIngest/internal/domain/commonModels"
	"github.com/akolanti/DocIngest/internal/domain/jobModel"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocuments() []commonModels.Document {
	return []commonModels.Document{
		{Content: "first", Metadata: commonModels.Metadata{"source": "a.csv", "file_type": "tabular", "lang": "en"}},
		{Content: "second", Metadata: commonModels.Metadata{"source": "a.csv", "file_type": "tabular"}},
	}
}

// both implementations must behave the same way
func exerciseDocumentStore(t *testing.T, docStore jobModel.DocumentStore) {
	t.Helper()
	ctx := context.WithValue(context.Background(), config.TRACE_ID_KEY, "doc-trace")

	empty, err := docStore.GetDocuments(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, docStore.AppendDocuments(ctx, "job-1", sampleDocuments()[:1]))
	require.NoError(t, docStore.AppendDocuments(ctx, "job-1", sampleDocuments()[1:]))
	require.NoError(t, docStore.AppendDocuments(ctx, "job-1", nil))

	docs, err := docStore.GetDocuments(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "first", docs[0].Content)
	assert.Equal(t, "en", docs[0].Metadata["lang"])
	assert.Equal(t, "second", docs[1].Content)

	docStore.DeleteDocuments(ctx, "job-1")
	docs, err = docStore.GetDocuments(ctx, "job-1")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRedisDocumentStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	docStore := store.TestDocumentStore(redisStore.NewTestStore(client))

	exerciseDocumentStore(t, docStore)
}

func TestRedisDocumentStore_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	docStore := store.TestDocumentStore(redisStore.NewTestStore(client))

	require.NoError(t, docStore.AppendDocuments(context.Background(), "job-ttl", sampleDocuments()))

	assert.Equal(t, config.RedisDocumentStoreTTL, mr.TTL("documents:job-ttl"))
	mr.FastForward(config.RedisDocumentStoreTTL + 1)
	assert.False(t, mr.Exists("documents:job-ttl"))
}

func TestInMemoryDocumentStore(t *testing.T) {
	exerciseDocumentStore(t, store.InitInMemoryDocumentStore())
}
