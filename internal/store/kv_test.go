package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newKV(t *testing.T) *KV {
	t.Helper()
	kv, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

func TestKV_RoundTrip(t *testing.T) {
	kv := newKV(t)

	require.NoError(t, kv.PutJSON("k", record{Name: "x", Count: 3}))

	var got record
	found, err := kv.GetJSON("k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, record{Name: "x", Count: 3}, got)
}

func TestKV_MissingKey(t *testing.T) {
	kv := newKV(t)

	var got record
	found, err := kv.GetJSON("absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, got)
}

func TestKV_CorruptValue(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.PutRaw("bad", []byte("{not json")))

	var got record
	_, err := kv.GetJSON("bad", &got)
	assert.Error(t, err)
}

func TestKV_Delete(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.PutJSON("k", record{Name: "x"}))
	require.NoError(t, kv.Delete("k"))

	var got record
	found, err := kv.GetJSON("k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is a no-op.
	assert.NoError(t, kv.Delete("k"))
}

func TestKV_Overwrite(t *testing.T) {
	kv := newKV(t)
	require.NoError(t, kv.PutJSON("k", record{Count: 1}))
	require.NoError(t, kv.PutJSON("k", record{Count: 2}))

	var got record
	_, err := kv.GetJSON("k", &got)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Count)
}

func TestOpen_Durable(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, kv.PutJSON("k", record{Name: "persisted"}))
	require.NoError(t, kv.Close())

	kv, err = Open(dir)
	require.NoError(t, err)
	defer kv.Close()

	var got record
	found, err := kv.GetJSON("k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "persisted", got.Name)
}
