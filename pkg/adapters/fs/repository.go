package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/quire/pkg/core"
	"github.com/aretw0/quire/pkg/git"
)

// Defaults used when Config leaves a field empty.
const (
	DefaultContentDir = "content/posts"
	DefaultAuthorsDir = "authors"
	DefaultSystemDir  = ".quire"
	DefaultRemote     = "origin"
)

// Repository implements core.PostRepository using Markdown files and Git.
//
// Layout:
//
//	{Path}/{ContentDir}/{slug}.md          single-file post
//	{Path}/{ContentDir}/{slug}/index.md    post bundle (assets next to it)
//	{Path}/{AuthorsDir}/{handle}.json      author record
//	{Path}/{SystemDir}/index.json          parse cache (git ignored)
type Repository struct {
	Path   string
	git    *git.Client
	cache  *cache
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastSave      *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path        string
	ContentDir  string
	AuthorsDir  string
	SystemDir   string
	AutoInit    bool
	Gitless     bool
	MustExist   bool
	ReadOnly    bool
	Logger      *slog.Logger
	Ignore      []string // doublestar patterns, relative to ContentDir
	LockTimeout time.Duration
	Remote      string
	Branch      string
	// ErrorHandler receives runtime watcher errors that would otherwise only be logged.
	ErrorHandler func(error)
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) *Repository {
	if config.ContentDir == "" {
		config.ContentDir = DefaultContentDir
	}
	if config.AuthorsDir == "" {
		config.AuthorsDir = DefaultAuthorsDir
	}
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Remote == "" {
		config.Remote = DefaultRemote
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}

	client := git.NewClient(config.Path, config.SystemDir+".lock", config.Logger)
	if config.LockTimeout > 0 {
		client.LockTimeout = config.LockTimeout
	}

	return &Repository{
		Path:   config.Path,
		git:    client,
		config: config,
		cache:  newCache(config.Path, config.SystemDir),
	}
}

func (r *Repository) contentRoot() string {
	return filepath.Join(r.Path, r.config.ContentDir)
}

// Initialize performs the necessary setup for the repository (mkdir, git init).
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.ReadOnly || r.config.MustExist {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("site path does not exist: %s", r.Path)
		}
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return fmt.Errorf("site path is not a directory: %s", r.Path)
		}
		if r.config.ReadOnly {
			return nil
		}
	}

	for _, dir := range []string{r.Path, r.contentRoot(), filepath.Join(r.Path, r.config.AuthorsDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if r.config.Gitless {
		return nil
	}

	if !git.IsInstalled() {
		return fmt.Errorf("git is not installed")
	}

	wasNewRepo := false
	if !r.git.IsRepo(ctx) {
		if !r.config.AutoInit {
			return fmt.Errorf("path is not a git repository: %s", r.Path)
		}
		if err := r.git.Init(ctx); err != nil {
			return fmt.Errorf("failed to git init: %w", err)
		}
		wasNewRepo = true
	}

	mod, err := r.ensureIgnore()
	if err != nil {
		return fmt.Errorf("failed to ensure .gitignore: %w", err)
	}

	if mod && wasNewRepo {
		// Start the history clean with the ignore rules in place.
		if err := r.git.Add(ctx, ".gitignore"); err != nil {
			return fmt.Errorf("failed to add .gitignore: %w", err)
		}
		if err := r.git.Commit(ctx, fmt.Sprintf("chore: configure %s ignore", r.config.SystemDir)); err != nil {
			return fmt.Errorf("failed to commit .gitignore: %w", err)
		}
	}

	return nil
}

// ensureIgnore keeps the system dir and lock file out of version control.
func (r *Repository) ensureIgnore() (bool, error) {
	ignorePath := filepath.Join(r.Path, ".gitignore")
	wanted := []string{r.config.SystemDir + "/", r.config.SystemDir + ".lock"}

	content, err := os.ReadFile(ignorePath)
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var missing []string
	for _, entry := range wanted {
		if !present[entry] {
			missing = append(missing, entry)
		}
	}
	if len(missing) == 0 {
		return false, nil
	}

	f, err := os.OpenFile(ignorePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		if _, err := f.WriteString("\n"); err != nil {
			return false, err
		}
	}
	if _, err := f.WriteString(strings.Join(missing, "\n") + "\n"); err != nil {
		return false, err
	}

	return true, nil
}

// Sync pulls and pushes the configured remote. Pushing is what hands the
// content to CI for the build-and-publish pass.
func (r *Repository) Sync(ctx context.Context) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if r.config.Gitless {
		return fmt.Errorf("%w: gitless mode", core.ErrNotSyncable)
	}
	if !r.git.IsRepo(ctx) {
		return fmt.Errorf("path is not a git repository: %s", r.Path)
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	return r.git.Sync(ctx, r.config.Remote, r.config.Branch)
}

// postRelPath returns the path of a post relative to the site root,
// preferring an existing bundle over a single file.
func (r *Repository) postRelPath(slug string) string {
	bundle := filepath.Join(r.config.ContentDir, slug, "index.md")
	if info, err := os.Stat(filepath.Join(r.Path, bundle)); err == nil && !info.IsDir() {
		return bundle
	}
	return filepath.Join(r.config.ContentDir, slug+".md")
}

// Save persists a post to the filesystem and commits it to Git.
//
// Workflow:
//  1. Validate the slug so the file cannot escape the content directory.
//  2. Serialize frontmatter + body and write atomically to disk.
//  3. (If Git enabled) 'git add' and 'git commit' with the change reason from ctx.
func (r *Repository) Save(ctx context.Context, rec core.PostRecord) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if !core.IsSafeSlug(rec.Slug) {
		return fmt.Errorf("%w: unsafe slug %q", core.ErrInvalidPost, rec.Slug)
	}

	rel := r.postRelPath(rec.Slug)
	fullPath := filepath.Join(r.Path, rel)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := serializePost(rec)
	if err != nil {
		return fmt.Errorf("failed to serialize post: %w", err)
	}

	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	r.recordSave()

	return r.commit(ctx, "update "+rec.Slug, rel)
}

// commit stages files and records them with the change reason carried by ctx.
func (r *Repository) commit(ctx context.Context, fallback string, files ...string) error {
	if r.config.Gitless {
		return nil
	}

	unlock, err := r.git.Lock(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire git lock: %w", err)
	}
	defer unlock()

	for i := range files {
		files[i] = filepath.ToSlash(files[i])
	}
	if err := r.git.Add(ctx, files...); err != nil {
		return fmt.Errorf("failed to git add: %w", err)
	}

	msg := fallback
	if val, ok := ctx.Value(core.ChangeReasonKey).(string); ok && val != "" {
		msg = val
	}

	if err := r.git.Commit(ctx, msg); err != nil {
		return fmt.Errorf("failed to git commit: %w", err)
	}
	return nil
}

// Get retrieves a post by slug.
func (r *Repository) Get(ctx context.Context, slug string) (core.PostRecord, error) {
	if !core.IsSafeSlug(slug) {
		return core.PostRecord{}, fmt.Errorf("%w: %q", core.ErrPostNotFound, slug)
	}

	data, err := os.ReadFile(filepath.Join(r.Path, r.postRelPath(slug)))
	if err != nil {
		if os.IsNotExist(err) {
			return core.PostRecord{}, fmt.Errorf("%w: %s", core.ErrPostNotFound, slug)
		}
		return core.PostRecord{}, err
	}

	rec, err := parsePost(data, slug)
	if err != nil {
		return core.PostRecord{}, fmt.Errorf("failed to parse post %s: %w", slug, err)
	}
	return rec, nil
}

// Exists reports whether a post with slug is stored, in either layout.
func (r *Repository) Exists(ctx context.Context, slug string) (bool, error) {
	if !core.IsSafeSlug(slug) {
		return false, nil
	}
	_, err := os.Stat(filepath.Join(r.Path, r.postRelPath(slug)))
	if err == nil {
		return true, nil
	}
	if errIsNotExist(err) {
		return false, nil
	}
	return false, err
}

// List scans the content directory for all posts.
//
// Strategy:
//  1. Load the parse cache from disk.
//  2. Walk the content dir, accepting {slug}.md and {slug}/index.md, skipping ignore patterns.
//  3. Cache hit (same mtime): reuse the parsed record. Miss: parse and update the cache.
//  4. Prune vanished entries and save the cache (unless read-only).
func (r *Repository) List(ctx context.Context) ([]core.PostRecord, error) {
	root := r.contentRoot()
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil, nil
	}

	if err := r.cache.Load(); err != nil {
		r.config.Logger.Debug("cache load failed, starting empty", "error", err)
	}
	seen := make(map[string]bool)
	var records []core.PostRecord

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		relContent, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relContent = filepath.ToSlash(relContent)
		if r.ignored(relContent) {
			return nil
		}

		slug, ok := slugFromPath(relContent)
		if !ok {
			r.config.Logger.Debug("skipping file outside post layout", "path", relContent)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		relPath := filepath.ToSlash(filepath.Join(r.config.ContentDir, relContent))
		seen[relPath] = true

		if entry, hit := r.cache.Get(relPath, info.ModTime()); hit {
			records = append(records, entry.Record)
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rec, err := parsePost(data, slug)
		if err != nil {
			r.config.Logger.Warn("skipping unparseable post", "path", relPath, "error", err)
			return nil
		}

		r.cache.Set(relPath, &indexEntry{Record: rec, LastModified: info.ModTime()})
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.cache.Prune(seen)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Debug("cache save failed", "error", err)
		}
	}

	return records, nil
}

func (r *Repository) ignored(relContent string) bool {
	for _, pattern := range r.config.Ignore {
		match, err := doublestar.Match(pattern, relContent)
		if err != nil {
			r.config.Logger.Debug("bad ignore pattern", "pattern", pattern, "error", err)
			continue
		}
		if match {
			return true
		}
	}
	return false
}

// slugFromPath maps a content-relative path to a slug:
// "hello.md" -> hello, "hello/index.md" -> hello. Section pages and deeper files are not posts.
func slugFromPath(relContent string) (string, bool) {
	parts := strings.Split(relContent, "/")
	switch len(parts) {
	case 1:
		if strings.HasPrefix(parts[0], "_") {
			return "", false
		}
		slug := strings.TrimSuffix(parts[0], ".md")
		return slug, core.IsSafeSlug(slug)
	case 2:
		if parts[1] != "index.md" {
			return "", false
		}
		return parts[0], core.IsSafeSlug(parts[0])
	default:
		return "", false
	}
}

// Authors returns the author registry stored next to the posts.
func (r *Repository) Authors() *AuthorStore {
	return newAuthorStore(r)
}

// IsGitInstalled checks if git is available in the system path.
func IsGitInstalled() bool {
	return git.IsInstalled()
}

func (r *Repository) recordSave() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastSave = &now
}

var _ core.PostRepository = (*Repository)(nil)
var _ core.Syncable = (*Repository)(nil)

// errIsNotExist unwraps path errors for callers that only care about absence.
func errIsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
