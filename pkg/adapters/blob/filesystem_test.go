package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileStore_PutReplaces(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Put(ctx, "avatars/7", []byte("one"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "avatars/7", ref)

	ref2, err := store.Put(ctx, "avatars/7", []byte("two"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, ref, ref2)

	data, err := store.Open(ref)
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), data)
}

func TestFileStore_KeysStayInsideRoot(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ref, err := store.Put(context.Background(), "../../etc/avatar", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "etc/avatar", ref)

	_, err = store.Put(context.Background(), "", []byte("x"), "image/png")
	assert.Error(t, err)
}

func TestFileStore_CancelledContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Put(ctx, "avatars/1", []byte("x"), "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}
