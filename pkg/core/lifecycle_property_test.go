package core_test

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/aretw0/quire/pkg/core"
)

func TestLifecycleProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	tracker := core.NewTracker(core.WithClock(func() time.Time {
		return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	}))

	properties.Property("created posts are drafts", prop.ForAll(
		func(title string) bool {
			post, err := tracker.Create(title)
			if err != nil {
				return false
			}
			return post.State() == core.StateDraft && !post.IsPublic()
		},
		gen.Identifier(),
	))

	properties.Property("publish makes a post public and is idempotent", prop.ForAll(
		func(title string, times int) bool {
			post, err := tracker.Create(title)
			if err != nil {
				return false
			}
			for i := 0; i < times; i++ {
				post.Publish()
				if !post.IsPublic() {
					return false
				}
			}
			return post.State() == core.StatePublished
		},
		gen.Identifier(),
		gen.IntRange(1, 5),
	))

	properties.Property("edit never changes state or creation time", prop.ForAll(
		func(title string, bodies []string, publish bool) bool {
			post, err := tracker.Create(title)
			if err != nil {
				return false
			}
			if publish {
				post.Publish()
			}
			state, created := post.State(), post.Created()
			for _, body := range bodies {
				post.Edit(body, core.WithAuthor("kay"))
				if post.State() != state || !post.Created().Equal(created) || post.Body() != body {
					return false
				}
			}
			return true
		},
		gen.Identifier(),
		gen.SliceOf(gen.AnyString()),
		gen.Bool(),
	))

	properties.Property("slugs are filesystem safe", prop.ForAll(
		func(title string) bool {
			slug, err := core.DeriveSlug(title)
			if err != nil {
				return true
			}
			return core.IsSafeSlug(slug)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
