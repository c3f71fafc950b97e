package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/quire/pkg/adapters/fs"
	"github.com/aretw0/quire/pkg/core"
)

// Init prepares the site at path and returns its post repository.
func Init(path string, opts ...Option) (core.PostRepository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initialize(path, o)
}

func initialize(path string, o *options) (core.PostRepository, error) {
	if o.repository != nil {
		return o.repository, nil
	}

	repo := newFS(path, o)
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

// newFS builds the filesystem adapter from options without touching disk.
func newFS(path string, o *options) *fs.Repository {
	autoInit, _ := o.config["auto_init"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	readOnly, _ := o.config["read_only"].(bool)
	contentDir, _ := o.config["content_dir"].(string)
	authorsDir, _ := o.config["authors_dir"].(string)
	systemDir, _ := o.config["system_dir"].(string)
	ignore, _ := o.config["ignore"].([]string)
	remote, _ := o.config["remote"].(string)
	branch, _ := o.config["branch"].(string)
	lockTimeout, _ := o.config["lock_timeout"].(time.Duration)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	if systemDir == "" {
		systemDir = fs.DefaultSystemDir
	}

	// Gitless detection: an explicit setting wins; otherwise an existing .git
	// means versioned, and a fresh site started with auto-init gets git too,
	// unless a system dir shows it was already initialized without it.
	gitless, explicit := o.config["gitless"].(bool)
	if !explicit {
		switch {
		case exists(filepath.Join(path, ".git")):
			gitless = false
		case autoInit && !exists(filepath.Join(path, systemDir)):
			gitless = false
		default:
			gitless = true
		}
		if gitless && o.logger != nil {
			o.logger.Debug("auto-detected gitless mode", "reason", ".git missing")
		}
	}

	return fs.NewRepository(fs.Config{
		Path:         path,
		ContentDir:   contentDir,
		AuthorsDir:   authorsDir,
		SystemDir:    systemDir,
		AutoInit:     autoInit,
		Gitless:      gitless,
		MustExist:    mustExist || !autoInit,
		ReadOnly:     readOnly,
		Logger:       o.logger,
		Ignore:       ignore,
		LockTimeout:  lockTimeout,
		Remote:       remote,
		Branch:       branch,
		ErrorHandler: errorHandler,
	})
}

// Sync pulls and pushes the site at path.
func Sync(ctx context.Context, path string, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var repo core.PostRepository = o.repository
	if repo == nil {
		o.config["must_exist"] = true
		repo = newFS(path, o)
	}

	syncable, ok := repo.(core.Syncable)
	if !ok {
		return fmt.Errorf("%w: repository does not support synchronization", core.ErrNotSyncable)
	}
	return syncable.Sync(ctx)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
