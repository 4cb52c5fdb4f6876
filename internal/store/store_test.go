package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string           `json:"name"`
	Count int              `json:"count"`
	Index map[string][]int `json:"index"`
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := testDoc{Name: "products", Count: 3, Index: map[string][]int{"10": {1, 2}}}
	require.NoError(t, s.Put(ctx, "owner-1", "products", &in))

	var out testDoc
	require.NoError(t, s.Get(ctx, "owner-1", "products", &out))
	assert.Equal(t, in, out)

	exists, err := s.Exists(ctx, "owner-1", "products")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryStoreNotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var out testDoc
	err := s.Get(ctx, "owner-1", "missing", &out)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := s.Exists(ctx, "owner-1", "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryStoreOwnerIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "owner-1", "products", &testDoc{Name: "a"}))

	var out testDoc
	err := s.Get(ctx, "owner-2", "products", &out)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "owner-1", "products", &testDoc{Count: 1}))
	require.NoError(t, s.Put(ctx, "owner-1", "products", &testDoc{Count: 2}))

	var out testDoc
	require.NoError(t, s.Get(ctx, "owner-1", "products", &out))
	assert.Equal(t, 2, out.Count)
}

func TestCompressJSONRoundTrip(t *testing.T) {
	in := testDoc{Name: "analytics", Count: 42, Index: map[string][]int{"hoodie": {5, 7, 9}}}

	payload, err := compressJSON(&in)
	require.NoError(t, err)
	require.NotEmpty(t, payload)
	// Gzip magic bytes: the stored blob is compressed on the wire
	assert.Equal(t, byte(0x1f), payload[0])
	assert.Equal(t, byte(0x8b), payload[1])

	var out testDoc
	require.NoError(t, decompressJSON(payload, &out))
	assert.Equal(t, in, out)
}

func TestDecompressJSONRejectsPlainBytes(t *testing.T) {
	var out testDoc
	assert.Error(t, decompressJSON([]byte(`{"name":"x"}`), &out))
}

func TestKey(t *testing.T) {
	assert.Equal(t, "owner:abc:doc:products", Key("abc", "products"))
}
