package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocal_CreatesAreaDirectories(t *testing.T) {
	root := t.TempDir()

	_, err := NewLocal(root, "http://localhost:8080/assets")
	require.NoError(t, err)

	for _, area := range []Area{AreaOriginal, AreaThumb} {
		info, err := os.Stat(filepath.Join(root, string(area)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestNewLocal_EmptyRoot(t *testing.T) {
	_, err := NewLocal("", "http://localhost:8080/assets")
	assert.Error(t, err)
}

func TestLocal_PutAndDelete(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "http://localhost:8080/assets/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), AreaOriginal, "image-abc.png", strings.NewReader("pixels"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/assets/original/image-abc.png", url)

	data, err := os.ReadFile(filepath.Join(root, "original", "image-abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	require.NoError(t, store.Delete(context.Background(), AreaOriginal, "image-abc.png"))
	_, err = os.Stat(filepath.Join(root, "original", "image-abc.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_AreasDoNotCollide(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "http://assets")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), AreaOriginal, "image-abc.png", strings.NewReader("full"))
	require.NoError(t, err)
	_, err = store.Put(context.Background(), AreaThumb, "image-abc.png", strings.NewReader("small"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), AreaThumb, "image-abc.png"))

	// The original under the same key survives.
	url, err := store.Put(context.Background(), AreaThumb, "image-abc.png", strings.NewReader("small again"))
	require.NoError(t, err)
	assert.Contains(t, url, "thumb/image-abc.png")
}

func TestLocal_DeleteMissingKeyIsNoOp(t *testing.T) {
	store, err := NewLocal(t.TempDir(), "http://assets")
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), AreaOriginal, "never-written.png"))
}

func TestLocal_KeyCannotEscapeRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocal(root, "http://assets")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), AreaOriginal, "../../escape.png", strings.NewReader("x"))
	require.NoError(t, err)

	// The traversal components are stripped; the file lands inside the area.
	_, err = os.Stat(filepath.Join(root, "original", "escape.png"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(filepath.Dir(root), "escape.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestNewKey_FieldAndExtension(t *testing.T) {
	key := NewKey("image", ".png")

	assert.True(t, strings.HasPrefix(key, "image-"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.NotEqual(t, key, NewKey("image", ".png"))
}
