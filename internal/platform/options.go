package platform

import (
	"log/slog"
	"time"

	"github.com/aretw0/quire/internal/config"
	"github.com/aretw0/quire/pkg/core"
)

// options holds the internal configuration for the quire service.
type options struct {
	repository core.PostRepository
	authors    core.AuthorRegistry
	logger     *slog.Logger
	clock      func() time.Time
	config     map[string]any
}

// Option defines a functional option for configuring quire.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		config: make(map[string]any),
	}
}

// WithAutoInit creates the site layout (and the git repository) when missing.
func WithAutoInit(auto bool) Option {
	return func(o *options) {
		o.config["auto_init"] = auto
	}
}

// WithVersioning enables or disables git. When unset, the presence of a
// .git directory decides.
func WithVersioning(enabled bool) Option {
	return func(o *options) {
		o.config["gitless"] = !enabled
	}
}

// WithMustExist requires the site directory to exist already.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.config["must_exist"] = must
	}
}

// WithLogger sets the logger for the service and its adapters.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRepository injects a custom post store; the filesystem adapter is skipped.
func WithRepository(repo core.PostRepository) Option {
	return func(o *options) {
		o.repository = repo
	}
}

// WithAuthorRegistry injects a custom author registry.
// Without it, the filesystem adapter's registry is used when available.
func WithAuthorRegistry(reg core.AuthorRegistry) Option {
	return func(o *options) {
		o.authors = reg
	}
}

// WithClock overrides the time source used to stamp new posts.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.clock = now
	}
}

// WithContentDir sets where posts live, relative to the site root.
func WithContentDir(dir string) Option {
	return func(o *options) {
		o.config["content_dir"] = dir
	}
}

// WithAuthorsDir sets where author records live, relative to the site root.
func WithAuthorsDir(dir string) Option {
	return func(o *options) {
		o.config["authors_dir"] = dir
	}
}

// WithSystemDir sets the hidden cache directory name (default ".quire").
func WithSystemDir(name string) Option {
	return func(o *options) {
		o.config["system_dir"] = name
	}
}

// WithIgnore excludes content paths matching any doublestar pattern.
func WithIgnore(patterns ...string) Option {
	return func(o *options) {
		o.config["ignore"] = patterns
	}
}

// WithRemote sets the git remote used by Sync.
func WithRemote(remote string) Option {
	return func(o *options) {
		o.config["remote"] = remote
	}
}

// WithBranch sets the branch pushed by Sync. Empty pushes the current upstream.
func WithBranch(branch string) Option {
	return func(o *options) {
		o.config["branch"] = branch
	}
}

// WithLockTimeout bounds how long writes wait for another quire process.
func WithLockTimeout(d time.Duration) Option {
	return func(o *options) {
		o.config["lock_timeout"] = d
	}
}

// WithWatcherErrorHandler registers a callback for runtime watcher failures
// (e.g. permission denied) which are otherwise only logged.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.config["watcher_error_handler"] = fn
	}
}

// WithReadOnly rejects every write and skips initialization side effects.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.config["read_only"] = enabled
	}
}

// WithConfig applies a loaded site configuration. Options passed after it win.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.config["content_dir"] = cfg.ContentDir
		o.config["authors_dir"] = cfg.AuthorsDir
		o.config["system_dir"] = cfg.SystemDir
		o.config["gitless"] = !cfg.Versioning
		o.config["auto_init"] = cfg.AutoInit
		o.config["remote"] = cfg.Remote
		o.config["branch"] = cfg.Branch
		o.config["ignore"] = cfg.Ignore
		o.config["lock_timeout"] = cfg.LockTimeout
	}
}
