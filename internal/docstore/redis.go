package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisStore keeps each document in a hash (prefix+collection+":"+id) and tracks the ids
// of a collection in a set.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	logger *zap.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a RedisStore
func NewRedisStore(client redis.UniversalClient, prefix string, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (rs *RedisStore) docKey(collection, id string) string {
	return rs.prefix + collection + ":" + id
}

func (rs *RedisStore) idsKey(collection string) string {
	return rs.prefix + collection + ":__ids"
}

func (rs *RedisStore) GetDoc(ctx context.Context, collection, id string) (Document, bool, error) {
	fields, err := rs.client.HGetAll(ctx, rs.docKey(collection, id)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to get document %s/%s: %w", collection, id, err)
	}
	if len(fields) == 0 {
		return nil, false, nil
	}
	return toDocument(fields), true, nil
}

func (rs *RedisStore) SetDoc(ctx context.Context, collection, id string, doc Document, merge bool) error {
	key := rs.docKey(collection, id)

	values := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		values[k] = string(v)
	}

	_, err := rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if !merge {
			pipe.Del(ctx, key)
		}
		if len(values) > 0 {
			pipe.HSet(ctx, key, values)
		}
		pipe.SAdd(ctx, rs.idsKey(collection), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set document %s/%s: %w", collection, id, err)
	}

	rs.logger.Debug("document stored",
		zap.String("collection", collection),
		zap.String("id", id),
		zap.Bool("merge", merge))
	return nil
}

// QueryOrderedLimited loads every document of the collection and orders them client side.
// Collections here are small (one document per distinct search term).
func (rs *RedisStore) QueryOrderedLimited(ctx context.Context, collection, orderField string, desc bool, limit int) ([]Document, error) {
	ids, err := rs.client.SMembers(ctx, rs.idsKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list collection %s: %w", collection, err)
	}

	pipe := rs.client.Pipeline()
	cmds := make([]*redis.StringStringMapCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, rs.docKey(collection, id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, fmt.Errorf("failed to load collection %s: %w", collection, err)
		}
	}

	docs := make([]Document, 0, len(ids))
	for _, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			continue
		}
		docs = append(docs, toDocument(fields))
	}

	return orderAndLimit(docs, orderField, desc, limit), nil
}

func toDocument(fields map[string]string) Document {
	doc := make(Document, len(fields))
	for k, v := range fields {
		doc[k] = json.RawMessage(v)
	}
	return doc
}
