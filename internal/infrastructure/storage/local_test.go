package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("jpeg bytes"), "123-0-car.jpg")
	require.NoError(t, err)
	assert.Equal(t, "123-0-car.jpg", name)

	b, err := os.ReadFile(filepath.Join(store.Root, name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(b))

	require.NoError(t, store.Delete(name))
	_, err = os.Stat(filepath.Join(store.Root, name))
	assert.True(t, os.IsNotExist(err))
}

func TestLocal_DeleteMissing(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	err = store.Delete("never-stored.jpg")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLocal_SaveStripsPath(t *testing.T) {
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	name, err := store.Save(strings.NewReader("x"), "../escape.jpg")
	require.NoError(t, err)
	assert.Equal(t, "escape.jpg", name)
	_, err = os.Stat(filepath.Join(store.Root, "escape.jpg"))
	assert.NoError(t, err)
}

func TestNewLocal_RequiresRoot(t *testing.T) {
	_, err := NewLocal("")
	assert.Error(t, err)
}

func TestNewLocal_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocal(root)
	require.NoError(t, err)
	info, err := os.Stat(root)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
