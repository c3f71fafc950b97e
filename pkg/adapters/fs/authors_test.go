package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/adapters/fs"
	"github.com/aretw0/quire/pkg/core"
)

func TestAuthorStore(t *testing.T) {
	repo, path := setupRepo(t)
	store := repo.Authors()
	ctx := context.Background()

	ana := core.Author{
		Handle:   "ana",
		Name:     "Ana Lima",
		Metadata: core.Metadata{"email": "ana@example.com"},
	}
	require.NoError(t, store.Register(ctx, ana))

	t.Run("Writes One File Per Handle", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(path, "authors", "ana.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), `"name": "Ana Lima"`)
	})

	t.Run("Lookup", func(t *testing.T) {
		got, err := store.Lookup(ctx, "ana")
		require.NoError(t, err)
		assert.Equal(t, "Ana Lima", got.Name)
		assert.Equal(t, "ana@example.com", got.Metadata["email"])
	})

	t.Run("Lookup Missing", func(t *testing.T) {
		_, err := store.Lookup(ctx, "bob")
		assert.ErrorIs(t, err, core.ErrAuthorNotFound)

		_, err = store.Lookup(ctx, "../ana")
		assert.ErrorIs(t, err, core.ErrAuthorNotFound)
	})

	t.Run("Duplicate Handle", func(t *testing.T) {
		err := store.Register(ctx, core.Author{Handle: "ana", Name: "Other"})
		assert.ErrorIs(t, err, core.ErrAuthorExists)
	})

	t.Run("Invalid Author", func(t *testing.T) {
		assert.ErrorIs(t, store.Register(ctx, core.Author{Handle: "Bad Handle", Name: "X"}), core.ErrInvalidAuthor)
		assert.ErrorIs(t, store.Register(ctx, core.Author{Handle: "noname"}), core.ErrInvalidAuthor)
	})

	t.Run("Schema Rejects Wrong Types", func(t *testing.T) {
		err := store.Register(ctx, core.Author{
			Handle:   "typed",
			Name:     "Typed",
			Metadata: core.Metadata{"links": "not-an-object"},
		})
		assert.ErrorIs(t, err, core.ErrInvalidAuthor)
	})

	t.Run("List Skips Invalid Files", func(t *testing.T) {
		dir := filepath.Join(path, "authors")
		require.NoError(t, os.WriteFile(filepath.Join(dir, "zed.json"), []byte(`{"name": "Zed"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"bio": "no name"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "Upper.json"), []byte(`{"name": "Upper"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "ana", list[0].Handle)
		assert.Equal(t, "zed", list[1].Handle)
	})
}

func TestAuthorStore_ReadOnly(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: t.TempDir(), Gitless: true, ReadOnly: true})
	err := repo.Authors().Register(context.Background(), core.Author{Handle: "ana", Name: "Ana"})
	assert.ErrorIs(t, err, core.ErrReadOnly)
}

func TestAuthorStore_MissingDir(t *testing.T) {
	repo := fs.NewRepository(fs.Config{Path: t.TempDir(), Gitless: true})
	list, err := repo.Authors().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}
