package core

import (
	"strings"
	"time"
)

// Tracker creates posts. It owns the clock so creation times are testable.
type Tracker struct {
	now func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithClock overrides the time source used to stamp creation times.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewTracker creates a Tracker using the wall clock unless overridden.
func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Create starts a new draft post from title.
// It returns an *InvalidTitleError when no slug can be derived; in that case
// no post is returned.
func (t *Tracker) Create(title string) (*Post, error) {
	slug, err := DeriveSlug(title)
	if err != nil {
		return nil, err
	}

	return &Post{
		slug: slug,
		// Stored dates carry second precision.
		created: t.now().UTC().Truncate(time.Second),
		state:   StateDraft,
		title:   strings.TrimSpace(title),
	}, nil
}
