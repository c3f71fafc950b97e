// Package lifecycle exposes site change events as a lifecycle.Source so
// preview loops can be supervised like any other lifecycle component.
package lifecycle

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/quire/pkg/core"
)

type siteSource struct {
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource wraps a watch channel. core.Event satisfies lifecycle.Event through String().
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &siteSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *siteSource) Events() <-chan lifecycle.Event {
	return s.out
}

// Start forwards events until the watch channel closes or ctx is done, then closes Events.
func (s *siteSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
