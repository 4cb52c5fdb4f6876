package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/redis/go-redis/v9"
)

// RedisStore persists documents as gzip-compressed JSON blobs in Redis.
// Compression is a transport concern of this layer only: callers see plain
// Go values on both sides.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store on an existing Redis client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Put implements DocumentStore
func (s *RedisStore) Put(ctx context.Context, ownerID, doc string, value interface{}) error {
	payload, err := compressJSON(value)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", doc, err)
	}
	if err := s.client.Set(ctx, Key(ownerID, doc), payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write document %s: %w", doc, err)
	}
	return nil
}

// Get implements DocumentStore
func (s *RedisStore) Get(ctx context.Context, ownerID, doc string, out interface{}) error {
	payload, err := s.client.Get(ctx, Key(ownerID, doc)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to read document %s: %w", doc, err)
	}
	if err := decompressJSON(payload, out); err != nil {
		return fmt.Errorf("failed to decode document %s: %w", doc, err)
	}
	return nil
}

// Exists implements DocumentStore
func (s *RedisStore) Exists(ctx context.Context, ownerID, doc string) (bool, error) {
	n, err := s.client.Exists(ctx, Key(ownerID, doc)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func compressJSON(value interface{}) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(raw); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressJSON(payload []byte, out interface{}) error {
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer gz.Close()
	raw, err := io.ReadAll(gz)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
