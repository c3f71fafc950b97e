package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/quire/pkg/core"
)

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 1, 9, 30, 15, 999, time.UTC) }
}

func TestTracker_Create(t *testing.T) {
	tracker := core.NewTracker(core.WithClock(fixedClock()))

	post, err := tracker.Create("  Hello World  ")
	require.NoError(t, err)

	assert.Equal(t, "hello-world", post.Slug())
	assert.Equal(t, "Hello World", post.Title())
	assert.Equal(t, core.StateDraft, post.State())
	assert.False(t, post.IsPublic())
	assert.Empty(t, post.Body())
	assert.Empty(t, post.Author())
	assert.Equal(t, time.Date(2024, 3, 1, 9, 30, 15, 0, time.UTC), post.Created())
}

func TestTracker_Create_Invalid(t *testing.T) {
	tracker := core.NewTracker()

	tests := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"blank", " \t\n"},
		{"punctuation only", "!!! ???"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			post, err := tracker.Create(tt.title)
			assert.Nil(t, post)
			require.Error(t, err)
			assert.ErrorIs(t, err, core.ErrInvalidTitle)

			var titleErr *core.InvalidTitleError
			require.ErrorAs(t, err, &titleErr)
			assert.Equal(t, tt.title, titleErr.Title)
		})
	}
}

func TestDeriveSlug_FoldsAccents(t *testing.T) {
	a, err := core.DeriveSlug("Café Ünïcode")
	require.NoError(t, err)
	b, err := core.DeriveSlug("Cafe Unicode")
	require.NoError(t, err)
	assert.Equal(t, b, a)
	assert.True(t, core.IsSafeSlug(a))
}

func TestIsSafeSlug(t *testing.T) {
	assert.True(t, core.IsSafeSlug("hello-world"))
	assert.False(t, core.IsSafeSlug(""))
	assert.False(t, core.IsSafeSlug(".."))
	assert.False(t, core.IsSafeSlug(".hidden"))
	assert.False(t, core.IsSafeSlug("a/b"))
	assert.False(t, core.IsSafeSlug(`a\b`))
	assert.False(t, core.IsSafeSlug("a b"))
}

func TestPost_EditKeepsStateAndCreated(t *testing.T) {
	tracker := core.NewTracker(core.WithClock(fixedClock()))
	post, err := tracker.Create("Edit Me")
	require.NoError(t, err)
	created := post.Created()

	post.Edit("one").Edit("two", core.WithAuthor(" kay "))
	assert.Equal(t, "two", post.Body())
	assert.Equal(t, "kay", post.Author())
	assert.Equal(t, core.StateDraft, post.State())
	assert.Equal(t, created, post.Created())
	assert.Equal(t, "edit-me", post.Slug())
	assert.Equal(t, "Edit Me", post.Title())

	post.Publish()
	post.Edit("three")
	assert.True(t, post.IsPublic())
	assert.Equal(t, "kay", post.Author(), "author is kept when not supplied")
}

func TestPost_PublishUnpublish(t *testing.T) {
	post, err := core.NewTracker().Create("States")
	require.NoError(t, err)

	post.Publish()
	assert.Equal(t, core.StatePublished, post.State())
	post.Publish()
	assert.Equal(t, core.StatePublished, post.State())

	post.Unpublish()
	assert.Equal(t, core.StateDraft, post.State())
	assert.False(t, post.IsPublic())
}

func TestPost_SnapshotRestore(t *testing.T) {
	post, err := core.NewTracker(core.WithClock(fixedClock())).Create("Round Trip")
	require.NoError(t, err)
	post.Edit("body", core.WithAuthor("kay")).Describe("short", []string{"Go", "go", " design "}).Publish()

	rec := post.Snapshot()
	assert.False(t, rec.Draft)
	assert.Equal(t, []string{"go", "design"}, rec.Tags)

	restored, err := core.RestorePost(rec)
	require.NoError(t, err)
	assert.Equal(t, post.Snapshot(), restored.Snapshot())
	assert.True(t, restored.HasTag("GO"))
}

func TestRestorePost_Invalid(t *testing.T) {
	_, err := core.RestorePost(core.PostRecord{Slug: "../etc", Title: "x"})
	assert.ErrorIs(t, err, core.ErrInvalidPost)

	_, err = core.RestorePost(core.PostRecord{Slug: "ok"})
	assert.ErrorIs(t, err, core.ErrInvalidPost)
}

func TestIsPublic_DanglingAuthor(t *testing.T) {
	post, err := core.RestorePost(core.PostRecord{Slug: "orphan", Title: "Orphan", Author: "nonexistent", Draft: true})
	require.NoError(t, err)
	assert.False(t, post.IsPublic())

	post.Publish()
	assert.True(t, post.IsPublic())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "draft", core.StateDraft.String())
	assert.Equal(t, "published", core.StatePublished.String())
	assert.Equal(t, "unknown", core.State(9).String())
}

func TestAuthor_Validate(t *testing.T) {
	assert.NoError(t, core.Author{Handle: "kay_2", Name: "Kay"}.Validate())
	assert.ErrorIs(t, core.Author{Handle: "", Name: "Kay"}.Validate(), core.ErrInvalidAuthor)
	assert.ErrorIs(t, core.Author{Handle: "-kay", Name: "Kay"}.Validate(), core.ErrInvalidAuthor)
	assert.ErrorIs(t, core.Author{Handle: "kay"}.Validate(), core.ErrInvalidAuthor)

	withEmail := core.Author{Handle: "kay", Name: "Kay", Metadata: core.Metadata{"email": "kay@example.com"}}
	assert.NoError(t, withEmail.Validate())
	withEmail.Metadata["email"] = "not-an-address"
	assert.ErrorIs(t, withEmail.Validate(), core.ErrInvalidAuthor)
}

func TestPost_EditOptions(t *testing.T) {
	post, err := core.NewTracker().Create("Original Title")
	require.NoError(t, err)

	post.Edit("body",
		core.WithTitle("  Better Title "),
		core.WithSummary(" short "),
		core.WithTags("Go", "go", " blog "),
	)
	assert.Equal(t, "Better Title", post.Title())
	assert.Equal(t, "original-title", post.Slug(), "retitling never moves the post")
	assert.Equal(t, "short", post.Summary())
	assert.Equal(t, []string{"go", "blog"}, post.Tags())

	post.Edit("body", core.WithTitle("   "))
	assert.Equal(t, "Better Title", post.Title())
}
