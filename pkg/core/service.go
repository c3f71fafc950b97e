package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/quire/pkg/commits"
)

// Service handles the publication workflow on top of the storage ports.
type Service struct {
	posts   PostRepository
	authors AuthorRegistry
	tracker *Tracker
	logger  *slog.Logger

	mu       sync.RWMutex
	readOnly bool
	writes   int
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTracker replaces the default Tracker (e.g. to inject a clock).
func WithTracker(t *Tracker) ServiceOption {
	return func(s *Service) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadOnly rejects every write with ErrReadOnly.
func WithReadOnly(enabled bool) ServiceOption {
	return func(s *Service) {
		s.readOnly = enabled
	}
}

// NewService creates a new Service. authors may be nil, in which case no
// author is ever resolved.
func NewService(posts PostRepository, authors AuthorRegistry, opts ...ServiceOption) *Service {
	s := &Service{
		posts:   posts,
		authors: authors,
		tracker: NewTracker(),
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreatePost starts a new draft from title and persists it.
// An invalid title blocks creation entirely; nothing is written.
func (s *Service) CreatePost(ctx context.Context, title string, opts ...EditOption) (*Post, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	post, err := s.tracker.Create(title)
	if err != nil {
		return nil, err
	}
	if len(opts) > 0 {
		post.Edit(post.Body(), opts...)
	}

	if _, err := s.posts.Get(ctx, post.Slug()); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrPostExists, post.Slug())
	} else if !errors.Is(err, ErrPostNotFound) {
		return nil, fmt.Errorf("failed to check slug %s: %w", post.Slug(), err)
	}

	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopePosts, "create "+post.Slug(), ""))
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post created", "slug", post.Slug(), "state", post.State())
	s.checkAuthor(ctx, post)
	return post, nil
}

// EditPost replaces the body (and optionally the author) of an existing post.
func (s *Service) EditPost(ctx context.Context, slug, body string, opts ...EditOption) (*Post, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	post.Edit(body, opts...)

	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopePosts, "edit "+slug, ""))
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post edited", "slug", slug, "bytes", len(body))
	s.checkAuthor(ctx, post)
	return post, nil
}

// DescribePost updates the listing metadata of an existing post, usually
// through WithSummary and WithTags. Fields without an option keep their value.
func (s *Service) DescribePost(ctx context.Context, slug string, opts ...EditOption) (*Post, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(post)
	}

	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopePosts, "describe "+slug, ""))
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// PublishPost makes a post public. Publishing an already published post
// returns it unchanged without writing.
func (s *Service) PublishPost(ctx context.Context, slug string) (*Post, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.IsPublic() {
		s.logger.Debug("post already published", "slug", slug)
		return post, nil
	}
	if strings.TrimSpace(post.Body()) == "" {
		s.logger.Warn("publishing post with empty body", "slug", slug)
	}

	post.Publish()
	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopePosts, "publish "+slug, ""))
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Info("post published", "slug", slug)
	return post, nil
}

// UnpublishPost returns a published post to draft. This reverses the normal
// workflow and is logged as a warning.
func (s *Service) UnpublishPost(ctx context.Context, slug string) (*Post, error) {
	if err := s.checkWritable(); err != nil {
		return nil, err
	}

	post, err := s.GetPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic() {
		s.logger.Debug("post already a draft", "slug", slug)
		return post, nil
	}

	post.Unpublish()
	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopePosts, "unpublish "+slug, ""))
	if err := s.save(ctx, post); err != nil {
		return nil, err
	}

	s.logger.Warn("post unpublished", "slug", slug)
	return post, nil
}

// GetPost retrieves a post by slug.
func (s *Service) GetPost(ctx context.Context, slug string) (*Post, error) {
	if slug == "" {
		return nil, errors.New("post slug cannot be empty")
	}
	rec, err := s.posts.Get(ctx, slug)
	if err != nil {
		return nil, err
	}
	return RestorePost(rec)
}

// ListOptions filters ListPosts.
type ListOptions struct {
	// IncludeDrafts is the preview mode: drafts are listed next to published posts.
	IncludeDrafts bool
	Author        string
	Tag           string
}

// ListPosts returns posts newest first. Drafts are excluded unless
// opts.IncludeDrafts is set. Records that cannot be restored are skipped.
func (s *Service) ListPosts(ctx context.Context, opts ListOptions) ([]*Post, error) {
	records, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(records))
	for _, rec := range records {
		post, err := RestorePost(rec)
		if err != nil {
			s.logger.Warn("skipping post", "slug", rec.Slug, "error", err)
			continue
		}
		if !opts.IncludeDrafts && !post.IsPublic() {
			continue
		}
		if opts.Author != "" && post.Author() != opts.Author {
			continue
		}
		if opts.Tag != "" && !post.HasTag(opts.Tag) {
			continue
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Created().Equal(posts[j].Created()) {
			return posts[i].Created().After(posts[j].Created())
		}
		return posts[i].Slug() < posts[j].Slug()
	})
	return posts, nil
}

// RegisterAuthor adds an author record. Records are never overwritten.
func (s *Service) RegisterAuthor(ctx context.Context, a Author) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	if s.authors == nil {
		return ErrNoAuthorRegistry
	}
	if err := a.Validate(); err != nil {
		return err
	}

	ctx = withReason(ctx, commits.Format(commits.TypeDocs, commits.ScopeAuthors, "register "+a.Handle, ""))
	if err := s.authors.Register(ctx, a); err != nil {
		return err
	}
	s.recordWrite()
	s.logger.Info("author registered", "handle", a.Handle)
	return nil
}

// GetAuthor looks up an author by handle.
func (s *Service) GetAuthor(ctx context.Context, handle string) (Author, error) {
	if s.authors == nil {
		return Author{}, ErrNoAuthorRegistry
	}
	return s.authors.Lookup(ctx, handle)
}

// ListAuthors returns every registered author.
func (s *Service) ListAuthors(ctx context.Context) ([]Author, error) {
	if s.authors == nil {
		return nil, nil
	}
	return s.authors.List(ctx)
}

// ResolveAuthor returns the author record referenced by post.
// A missing or unreadable record is reported as false, never as an error.
func (s *Service) ResolveAuthor(ctx context.Context, post *Post) (Author, bool) {
	if post == nil || post.Author() == "" || s.authors == nil {
		return Author{}, false
	}
	a, err := s.authors.Lookup(ctx, post.Author())
	if err != nil {
		if !errors.Is(err, ErrAuthorNotFound) {
			s.logger.Debug("author lookup failed", "handle", post.Author(), "error", err)
		}
		return Author{}, false
	}
	return a, true
}

// ManifestEntry is what the generator receives for one post.
type ManifestEntry struct {
	Slug         string    `json:"slug"`
	Title        string    `json:"title"`
	Date         time.Time `json:"date"`
	Draft        bool      `json:"draft"`
	AuthorHandle string    `json:"author,omitempty"`
	Author       *Author   `json:"author_record,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	Body         string    `json:"body"`
}

// Manifest lists the posts a rendering pass should include. Outside preview
// mode drafts are excluded. Dangling author references are logged and left
// unresolved.
func (s *Service) Manifest(ctx context.Context, preview bool) ([]ManifestEntry, error) {
	posts, err := s.ListPosts(ctx, ListOptions{IncludeDrafts: preview})
	if err != nil {
		return nil, err
	}

	entries := make([]ManifestEntry, 0, len(posts))
	dangling := 0
	for _, p := range posts {
		entry := ManifestEntry{
			Slug:         p.Slug(),
			Title:        p.Title(),
			Date:         p.Created(),
			Draft:        !p.IsPublic(),
			AuthorHandle: p.Author(),
			Summary:      p.Summary(),
			Tags:         p.Tags(),
			Body:         p.Body(),
		}
		if a, ok := s.ResolveAuthor(ctx, p); ok {
			entry.Author = &a
		} else if p.Author() != "" {
			dangling++
		}
		entries = append(entries, entry)
	}

	if dangling > 0 {
		s.logger.Warn("posts reference unregistered authors", "count", dangling)
	}
	return entries, nil
}

// Sync performs the deploy hand-off (pull/push) if the repository supports it.
func (s *Service) Sync(ctx context.Context) error {
	if err := s.checkWritable(); err != nil {
		return err
	}
	syncer, ok := s.posts.(Syncable)
	if !ok {
		return ErrNotSyncable
	}
	return syncer.Sync(ctx)
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.posts.(Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	return w.Watch(ctx, pattern)
}

func (s *Service) save(ctx context.Context, post *Post) error {
	if err := s.posts.Save(ctx, post.Snapshot()); err != nil {
		return fmt.Errorf("failed to save post %s: %w", post.Slug(), err)
	}
	s.recordWrite()
	return nil
}

// checkAuthor logs dangling references; they never fail a write.
func (s *Service) checkAuthor(ctx context.Context, post *Post) {
	if post.Author() == "" || s.authors == nil {
		return
	}
	if _, ok := s.ResolveAuthor(ctx, post); !ok {
		s.logger.Warn("post references unregistered author", "slug", post.Slug(), "author", post.Author())
	}
}

func (s *Service) checkWritable() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.readOnly {
		return ErrReadOnly
	}
	return nil
}

func (s *Service) recordWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

// withReason sets the default change reason unless the caller already supplied one.
func withReason(ctx context.Context, reason string) context.Context {
	if val, ok := ctx.Value(ChangeReasonKey).(string); ok && val != "" {
		return ctx
	}
	return context.WithValue(ctx, ChangeReasonKey, reason)
}
