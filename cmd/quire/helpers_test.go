package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/core"
)

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{"go", "Blog"}, splitTags(" go, Blog ,,"))
	assert.Nil(t, splitTags(""))
}

func TestReadBody(t *testing.T) {
	t.Run("Flag", func(t *testing.T) {
		body, ok, err := readBody("hello", true, "", nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "hello", body)
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "body.md")
		require.NoError(t, os.WriteFile(path, []byte("from file\n"), 0644))

		body, ok, err := readBody("", false, path, nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "from file\n", body)
	})

	t.Run("Stdin", func(t *testing.T) {
		body, ok, err := readBody("", false, "-", strings.NewReader("piped"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "piped", body)
	})

	t.Run("Empty Flag Clears", func(t *testing.T) {
		body, ok, err := readBody("", true, "", nil)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, body)
	})

	t.Run("Nothing", func(t *testing.T) {
		_, ok, err := readBody("", false, "", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Both", func(t *testing.T) {
		_, _, err := readBody("a", true, "b", nil)
		assert.Error(t, err)
	})
}

func TestPrintPosts(t *testing.T) {
	clock := core.WithClock(func() time.Time { return time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC) })
	post, err := core.NewTracker(clock).Create("Hello World")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printPosts(&buf, []*core.Post{post}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "SLUG")
	assert.Contains(t, lines[1], "hello-world")
	assert.Contains(t, lines[1], "draft")
	assert.Contains(t, lines[1], "2024-02-03")

	v := viewOf(post)
	assert.Equal(t, "draft", v.State)
	assert.Equal(t, "Hello World", v.Title)
}
