package core

import "context"

// PostRepository defines the contract for storing and retrieving posts.
// There is deliberately no Delete: removing a post is a manual action outside the workflow.
type PostRepository interface {
	// Save persists a post. It creates if not exists, or updates if it does.
	Save(ctx context.Context, rec PostRecord) error

	// Get retrieves a post by slug. Missing posts yield an error matching ErrPostNotFound.
	Get(ctx context.Context, slug string) (PostRecord, error)

	// List returns every post, drafts included.
	List(ctx context.Context) ([]PostRecord, error)

	// Initialize ensures the underlying storage is ready (e.g., create directories, git init).
	Initialize(ctx context.Context) error
}

// AuthorRegistry is the store of author records.
type AuthorRegistry interface {
	// Register stores a new author. Existing handles yield ErrAuthorExists.
	Register(ctx context.Context, a Author) error

	// Lookup finds an author by handle. Missing authors yield ErrAuthorNotFound.
	Lookup(ctx context.Context, handle string) (Author, error)

	// List returns all registered authors.
	List(ctx context.Context) ([]Author, error)
}

// Syncable defines an interface for repositories that support synchronization with a remote.
type Syncable interface {
	// Sync synchronizes the local state with a remote source (e.g. git pull/push).
	Sync(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report changes.
type Watchable interface {
	// Watch emits events for paths matching the doublestar pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}
