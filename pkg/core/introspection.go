package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string `json:"repository_type"`
	AuthorRegistry bool   `json:"author_registry"`
	ReadOnly       bool   `json:"read_only"`
	Writes         int    `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.posts != nil {
		repoType = "repository"
		if comp, ok := s.posts.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return ServiceState{
		RepositoryType: repoType,
		AuthorRegistry: s.authors != nil,
		ReadOnly:       s.readOnly,
		Writes:         s.writes,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

// Repository exposes the post repository, e.g. to read its own introspection state.
func (s *Service) Repository() PostRepository {
	return s.posts
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
