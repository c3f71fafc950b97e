package quire

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/quire/internal/config"
	"github.com/aretw0/quire/internal/platform"
	"github.com/aretw0/quire/pkg/core"
)

// --- Types ---

// Post is a blog entry with its publication state.
type Post = core.Post

// Author is a registered profile referenced by posts.
type Author = core.Author

// State is the publication state of a post.
type State = core.State

// Publication states.
const (
	StateDraft     = core.StateDraft
	StatePublished = core.StatePublished
)

// Config is the per-site configuration read from .quire.yml.
type Config = config.Config

// ErrRootNotFound is returned by FindRoot and Open outside of a site.
var ErrRootNotFound = platform.ErrRootNotFound

// --- Configuration ---

// Option defines a functional option for configuring quire.
type Option = platform.Option

// WithAutoInit creates the site layout and git repository when missing.
func WithAutoInit(auto bool) Option {
	return platform.WithAutoInit(auto)
}

// WithVersioning enables or disables git.
func WithVersioning(enabled bool) Option {
	return platform.WithVersioning(enabled)
}

// WithMustExist requires the site directory to exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom post store.
func WithRepository(repo core.PostRepository) Option {
	return platform.WithRepository(repo)
}

// WithAuthorRegistry injects a custom author registry.
func WithAuthorRegistry(reg core.AuthorRegistry) Option {
	return platform.WithAuthorRegistry(reg)
}

// WithClock overrides the time source used to stamp new posts.
func WithClock(now func() time.Time) Option {
	return platform.WithClock(now)
}

// WithContentDir sets where posts live.
func WithContentDir(dir string) Option {
	return platform.WithContentDir(dir)
}

// WithAuthorsDir sets where author records live.
func WithAuthorsDir(dir string) Option {
	return platform.WithAuthorsDir(dir)
}

// WithSystemDir sets the hidden cache directory name.
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithIgnore excludes content paths matching doublestar patterns.
func WithIgnore(patterns ...string) Option {
	return platform.WithIgnore(patterns...)
}

// WithRemote sets the git remote used by Sync.
func WithRemote(remote string) Option {
	return platform.WithRemote(remote)
}

// WithBranch sets the branch pushed by Sync.
func WithBranch(branch string) Option {
	return platform.WithBranch(branch)
}

// WithLockTimeout bounds how long writes wait for the site lock.
func WithLockTimeout(d time.Duration) Option {
	return platform.WithLockTimeout(d)
}

// WithReadOnly rejects every write.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithWatcherErrorHandler receives runtime watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithConfig applies a loaded site configuration.
func WithConfig(cfg Config) Option {
	return platform.WithConfig(cfg)
}

// --- Factory ---

// New creates a quire service for the site at path.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Open finds the site root above dir, loads its configuration and returns a
// service for it. Extra options override the configuration.
func Open(dir string, opts ...Option) (*core.Service, error) {
	root, err := platform.FindRoot(dir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(root, "")
	if err != nil {
		return nil, err
	}
	return platform.New(root, append([]Option{platform.WithConfig(*cfg)}, opts...)...)
}

// Init prepares a site explicitly and returns its post repository.
func Init(path string, opts ...Option) (core.PostRepository, error) {
	return platform.Init(path, opts...)
}

// --- Operations ---

// Sync pulls and pushes the site at path.
func Sync(ctx context.Context, path string, opts ...Option) error {
	return platform.Sync(ctx, path, opts...)
}

// FindRoot looks upwards from dir for a site root.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}
