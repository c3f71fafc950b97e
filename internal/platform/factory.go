package platform

import (
	"github.com/aretw0/quire/pkg/adapters/fs"
	"github.com/aretw0/quire/pkg/core"
)

// New wires a ready-to-use service for the site at path:
//
//	svc, err := quire.New("./blog", quire.WithAutoInit(true))
func New(path string, opts ...Option) (*core.Service, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	repo, err := initialize(path, o)
	if err != nil {
		return nil, err
	}

	authors := o.authors
	if authors == nil {
		if fsRepo, ok := repo.(*fs.Repository); ok {
			authors = fsRepo.Authors()
		}
	}

	readOnly, _ := o.config["read_only"].(bool)
	svcOpts := []core.ServiceOption{core.WithReadOnly(readOnly)}
	if o.logger != nil {
		svcOpts = append(svcOpts, core.WithLogger(o.logger))
	}
	if o.clock != nil {
		svcOpts = append(svcOpts, core.WithTracker(core.NewTracker(core.WithClock(o.clock))))
	}

	return core.NewService(repo, authors, svcOpts...), nil
}
