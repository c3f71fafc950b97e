package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// ErrLockTimeout is returned when the site lock cannot be acquired in time.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// DefaultLockTimeout bounds how long Lock waits for another process.
const DefaultLockTimeout = 10 * time.Second

// Client wraps git command execution with a file-based lock for process safety.
type Client struct {
	WorkDir     string
	Logger      *slog.Logger
	LockTimeout time.Duration
	lockPath    string
}

// NewClient creates a new git client for the given working directory.
// lockName is relative to workDir.
func NewClient(workDir, lockName string, logger *slog.Logger) *Client {
	if lockName == "" {
		lockName = ".quire.lock"
	}
	return &Client{
		WorkDir:     workDir,
		Logger:      logger,
		LockTimeout: DefaultLockTimeout,
		lockPath:    lockName,
	}
}

// IsInstalled checks if git is available in the system path.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// Lock acquires the file lock, retrying until LockTimeout elapses or ctx is done.
func (c *Client) Lock(ctx context.Context) (func(), error) {
	fullLockPath := filepath.Join(c.WorkDir, c.lockPath)
	timeout := c.LockTimeout
	if timeout <= 0 {
		timeout = DefaultLockTimeout
	}
	deadline := time.Now().Add(timeout)

	for {
		f, err := os.OpenFile(fullLockPath, os.O_CREATE|os.O_EXCL, 0666)
		if err == nil {
			f.Close()
			return func() {
				os.Remove(fullLockPath)
			}, nil
		}

		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to acquire lock: %w", err)
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, fullLockPath)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Run executes a raw git command in the working directory.
// NOTE: It does NOT acquire the lock automatically. The caller must manage safety via Client.Lock().
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", args[0], err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Re-running it is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// IsRepo reports whether WorkDir is inside a git work tree.
func (c *Client) IsRepo(ctx context.Context) bool {
	out, err := c.Run(ctx, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// HasStagedChanges reports whether the index differs from HEAD.
func (c *Client) HasStagedChanges(ctx context.Context) (bool, error) {
	_, err := c.Run(ctx, "diff", "--cached", "--quiet")
	if err == nil {
		return false, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// Commit records staged changes. Nothing is committed if nothing is staged.
func (c *Client) Commit(ctx context.Context, msg string) error {
	staged, err := c.HasStagedChanges(ctx)
	if err != nil {
		return err
	}
	if !staged {
		if c.Logger != nil {
			c.Logger.Debug("nothing to commit", "dir", c.WorkDir)
		}
		return nil
	}
	_, err = c.Run(ctx, "commit", "-m", msg)
	return err
}

// Status returns the porcelain status of the repo.
func (c *Client) Status(ctx context.Context) (string, error) {
	return c.Run(ctx, "status", "--porcelain")
}

// HasRemote reports whether the named remote is configured.
func (c *Client) HasRemote(ctx context.Context, remote string) bool {
	_, err := c.Run(ctx, "remote", "get-url", remote)
	return err == nil
}

// Pull integrates remote changes, rebasing local commits on top.
func (c *Client) Pull(ctx context.Context, remote, branch string) error {
	args := []string{"pull", "--rebase", remote}
	if branch != "" {
		args = append(args, branch)
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Push publishes local commits; this is what triggers the CI build.
func (c *Client) Push(ctx context.Context, remote, branch string) error {
	args := []string{"push", remote}
	if branch != "" {
		args = append(args, "HEAD:"+branch)
	}
	_, err := c.Run(ctx, args...)
	return err
}

// Sync pulls then pushes against remote.
func (c *Client) Sync(ctx context.Context, remote, branch string) error {
	if remote == "" {
		remote = "origin"
	}
	if !c.HasRemote(ctx, remote) {
		return fmt.Errorf("remote %q is not configured", remote)
	}
	if err := c.Pull(ctx, remote, branch); err != nil {
		return fmt.Errorf("pull failed: %w", err)
	}
	if err := c.Push(ctx, remote, branch); err != nil {
		return fmt.Errorf("push failed: %w", err)
	}
	return nil
}
