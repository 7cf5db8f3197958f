package repositories

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRepository_MissingFileYieldsNoToken(t *testing.T) {
	repo := NewLocalStorageRepository(filepath.Join(t.TempDir(), "storage.yaml"), "token")

	token, err := repo.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLocalStorageRepository_SetTokenPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "storage.yaml")
	repo := NewLocalStorageRepository(path, "token")

	require.NoError(t, repo.SetToken("t1"))
	require.NoError(t, repo.Set("theme", "dark"))

	reopened := NewLocalStorageRepository(path, "token")
	token, err := reopened.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t1", token)

	theme, err := reopened.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLocalStorageRepository_ClearTokenKeepsOtherKeys(t *testing.T) {
	repo := NewLocalStorageRepository(filepath.Join(t.TempDir(), "storage.yaml"), "token")
	require.NoError(t, repo.SetToken("t1"))
	require.NoError(t, repo.Set("theme", "dark"))

	require.NoError(t, repo.ClearToken())

	token, err := repo.Token(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)

	theme, err := repo.Get("theme")
	require.NoError(t, err)
	assert.Equal(t, "dark", theme)
}

func TestLocalStorageRepository_TokenReadEveryCall(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.yaml")
	reader := NewLocalStorageRepository(path, "token")
	writer := NewLocalStorageRepository(path, "token")

	require.NoError(t, writer.SetToken("first"))
	token, err := reader.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "first", token)

	require.NoError(t, writer.SetToken("second"))
	token, err = reader.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "second", token)
}
