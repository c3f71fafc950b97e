package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Post is a single article and its publication state.
//
// Identity (slug) and creation time are fixed at construction. The only
// mutators are Edit, Describe, Publish and Unpublish, so Draft -> Published
// is the single transition the normal workflow can produce.
type Post struct {
	slug    string
	created time.Time
	state   State

	title   string
	author  string
	body    string
	summary string
	tags    []string
	extra   Metadata
}

func (p *Post) Slug() string       { return p.slug }
func (p *Post) Title() string      { return p.title }
func (p *Post) Created() time.Time { return p.created }
func (p *Post) State() State       { return p.state }
func (p *Post) Author() string     { return p.author }
func (p *Post) Body() string       { return p.body }
func (p *Post) Summary() string    { return p.summary }
func (p *Post) Tags() []string     { return slices.Clone(p.tags) }

// Extra returns frontmatter keys the lifecycle does not interpret.
func (p *Post) Extra() Metadata {
	if p.extra == nil {
		return nil
	}
	out := make(Metadata, len(p.extra))
	for k, v := range p.extra {
		out[k] = v
	}
	return out
}

// IsPublic reports whether the post belongs in public output.
// It depends on nothing but the post's own state.
func (p *Post) IsPublic() bool {
	return p.state == StatePublished
}

// EditOption customizes an Edit call.
type EditOption func(*Post)

// WithAuthor replaces the author reference. The handle is not resolved.
func WithAuthor(handle string) EditOption {
	return func(p *Post) {
		p.author = strings.TrimSpace(handle)
	}
}

// WithTitle retitles the post. The slug keeps its original value; a blank title is ignored.
func WithTitle(title string) EditOption {
	return func(p *Post) {
		if t := strings.TrimSpace(title); t != "" {
			p.title = t
		}
	}
}

// WithBody sets the body for calls that take no body argument, such as Service.CreatePost.
func WithBody(body string) EditOption {
	return func(p *Post) {
		p.body = body
	}
}

// WithSummary sets the listing summary.
func WithSummary(summary string) EditOption {
	return func(p *Post) {
		p.summary = strings.TrimSpace(summary)
	}
}

// WithTags replaces the tag set.
func WithTags(tags ...string) EditOption {
	return func(p *Post) {
		p.tags = normalizeTags(tags)
	}
}

// Edit overwrites the body and applies opts. State, slug and creation time are untouched.
func (p *Post) Edit(body string, opts ...EditOption) *Post {
	p.body = body
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Describe sets the listing metadata shown next to a post (summary and tags).
func (p *Post) Describe(summary string, tags []string) *Post {
	p.summary = strings.TrimSpace(summary)
	p.tags = normalizeTags(tags)
	return p
}

// Publish moves the post to StatePublished. Publishing twice is a no-op.
func (p *Post) Publish() *Post {
	p.state = StatePublished
	return p
}

// Unpublish moves a published post back to StateDraft.
// It exists for retractions; callers are expected to record why.
func (p *Post) Unpublish() *Post {
	p.state = StateDraft
	return p
}

// Snapshot returns the persisted form of the post.
func (p *Post) Snapshot() PostRecord {
	return PostRecord{
		Slug:    p.slug,
		Title:   p.title,
		Created: p.created,
		Author:  p.author,
		Draft:   p.state != StatePublished,
		Summary: p.summary,
		Tags:    p.Tags(),
		Extra:   p.Extra(),
		Body:    p.body,
	}
}

// RestorePost rebuilds a post from its persisted form.
func RestorePost(rec PostRecord) (*Post, error) {
	if !IsSafeSlug(rec.Slug) {
		return nil, fmt.Errorf("%w: unsafe slug %q", ErrInvalidPost, rec.Slug)
	}
	if strings.TrimSpace(rec.Title) == "" {
		return nil, fmt.Errorf("%w: %s has no title", ErrInvalidPost, rec.Slug)
	}

	state := StatePublished
	if rec.Draft {
		state = StateDraft
	}

	p := &Post{
		slug:    rec.Slug,
		created: rec.Created,
		state:   state,
		title:   rec.Title,
		author:  strings.TrimSpace(rec.Author),
		body:    rec.Body,
		summary: rec.Summary,
		tags:    normalizeTags(rec.Tags),
	}
	if len(rec.Extra) > 0 {
		p.extra = make(Metadata, len(rec.Extra))
		for k, v := range rec.Extra {
			p.extra[k] = v
		}
	}
	return p, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || slices.Contains(out, t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// HasTag reports whether the post carries tag (case-insensitive).
func (p *Post) HasTag(tag string) bool {
	return slices.Contains(p.tags, strings.ToLower(strings.TrimSpace(tag)))
}
