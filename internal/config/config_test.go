package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		env         map[string]string
		expectError bool
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name: "defaults without file",
			check: func(t *testing.T, cfg *Config) {
				want := Default()
				assert.Equal(t, want.ContentDir, cfg.ContentDir)
				assert.Equal(t, want.AuthorsDir, cfg.AuthorsDir)
				assert.Equal(t, ".quire", cfg.SystemDir)
				assert.True(t, cfg.Versioning)
				assert.Equal(t, 10*time.Second, cfg.LockTimeout)
				assert.Empty(t, cfg.Source)
			},
		},
		{
			name: "file values",
			file: "content_dir: blog\nversioning: false\nlock_timeout: 2s\nignore:\n  - \"archive/**\"\n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "blog", cfg.ContentDir)
				assert.False(t, cfg.Versioning)
				assert.Equal(t, 2*time.Second, cfg.LockTimeout)
				assert.Equal(t, []string{"archive/**"}, cfg.Ignore)
				assert.Equal(t, "authors", cfg.AuthorsDir, "unset keys keep defaults")
				assert.NotEmpty(t, cfg.Source)
			},
		},
		{
			name: "env overrides file",
			file: "content_dir: blog\n",
			env:  map[string]string{"QUIRE_CONTENT_DIR": "posts", "QUIRE_BRANCH": "main"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "posts", cfg.ContentDir)
				assert.Equal(t, "main", cfg.Branch)
			},
		},
		{
			name:        "rejects escaping dirs",
			file:        "content_dir: ../elsewhere\n",
			expectError: true,
		},
		{
			name:        "rejects negative timeout",
			file:        "lock_timeout: -1s\n",
			expectError: true,
		},
		{
			name:        "rejects broken pattern",
			file:        "ignore:\n  - \"[\"\n",
			expectError: true,
		},
		{
			name:        "rejects broken yaml",
			file:        "content_dir: [\n",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.file != "" {
				writeFile(t, filepath.Join(root, FileName), tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(root, "")
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	_, err := Load(t.TempDir(), filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestSave(t *testing.T) {
	root := t.TempDir()
	cfg := Default()
	cfg.Branch = "main"

	path, err := Save(root, cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, FileName), path)

	loaded, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "main", loaded.Branch)
	assert.Equal(t, cfg.LockTimeout, loaded.LockTimeout)

	_, err = Save(root, cfg)
	assert.ErrorIs(t, err, os.ErrExist)
}

func TestLoadEnvFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, LoadEnvFile(root), "missing .env is fine")

	t.Setenv("QUIRE_REMOTE", "")
	os.Unsetenv("QUIRE_REMOTE")
	writeFile(t, filepath.Join(root, ".env"), "QUIRE_REMOTE=upstream\n")
	require.NoError(t, LoadEnvFile(root))

	cfg, err := Load(root, "")
	require.NoError(t, err)
	assert.Equal(t, "upstream", cfg.Remote)
}
