// Package core holds the publication lifecycle of a blog: posts, their
// draft/published state, the authors they reference, and the storage ports
// the lifecycle depends on.
package core

import (
	"time"
)

// Metadata represents the flexible key-value pairs attached to posts and authors.
type Metadata map[string]any

// State is the publication state of a post.
type State uint8

const (
	// StateDraft posts are excluded from every non-preview rendering pass.
	StateDraft State = iota
	// StatePublished posts are part of the public site.
	StatePublished
)

func (s State) String() string {
	switch s {
	case StateDraft:
		return "draft"
	case StatePublished:
		return "published"
	default:
		return "unknown"
	}
}

// PostRecord is the persisted shape of a post.
// Storage adapters read and write records; the lifecycle itself only ever
// operates on *Post, see RestorePost and Post.Snapshot.
type PostRecord struct {
	Slug    string    `json:"slug"`
	Title   string    `json:"title"`
	Created time.Time `json:"date"`
	Author  string    `json:"author,omitempty"`
	Draft   bool      `json:"draft"`
	Summary string    `json:"summary,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
	Extra   Metadata  `json:"extra,omitempty"`
	Body    string    `json:"body"`
}

// EventType represents the type of change observed in the site.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the site content.
type Event struct {
	Type      EventType
	Path      string // slash separated, relative to the site root
	Timestamp int64  // Unix timestamp
}

func (e Event) String() string {
	return string(e.Type) + " " + e.Path
}

type contextKey string

// ChangeReasonKey is the context key for passing the change reason (commit message)
// down to storage adapters during writes.
const ChangeReasonKey contextKey = "change_reason"
