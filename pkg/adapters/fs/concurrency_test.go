package fs_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/adapters/fs"
	"github.com/aretw0/quire/pkg/core"
)

// TestConcurrentSaves checks the site lock serializes git access: every
// writer gets its own commit and none fails on git's index.lock.
func TestConcurrentSaves(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	requireGit(t)
	repo, path := setupRepo(t, func(c *fs.Config) { c.Gitless = false })

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			slug := fmt.Sprintf("post-%d", i)
			ctx := context.WithValue(context.Background(), core.ChangeReasonKey, "docs(posts): create "+slug)
			errs <- repo.Save(ctx, record(slug, "Post", true))
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	out, err := exec.Command("git", "-C", path, "log", "--pretty=%s").Output()
	require.NoError(t, err)
	creates := 0
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if strings.HasPrefix(line, "docs(posts): create post-") {
			creates++
		}
	}
	assert.Equal(t, writers, creates)
}

// TestListWhileWriting runs List against a noisy external writer.
func TestListWhileWriting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}
	repo, path := setupRepo(t)
	posts := filepath.Join(path, "content", "posts")

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			name := filepath.Join(posts, fmt.Sprintf("noise-%d.md", i%5))
			_ = os.WriteFile(name, []byte(fmt.Sprintf("---\ntitle: Noise %d\n---\n", i)), 0644)
		}
	}()

	for i := 0; i < 20; i++ {
		_, err := repo.List(context.Background())
		require.NoError(t, err)
	}
	wg.Wait()

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 5)
}
