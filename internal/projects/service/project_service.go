package service

import (
	"context"
	"errors"
	"log"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// ProjectService handles project-related business logic.
type ProjectService struct {
	projects ProjectStore
	users    UserStore
}

func NewProjectService(projects ProjectStore, users UserStore) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// Create creates a project owned by ownerID, who becomes its only member.
func (s *ProjectService) Create(ctx context.Context, ownerID, name, description string) (*domain.Project, error) {
	p := &domain.Project{
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Members:     []string{ownerID},
		MemberRoles: map[string]string{ownerID: domain.RoleOwner},
	}

	id, err := s.projects.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	p.ID = id

	if err := s.users.AddProject(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a single project by ID.
func (s *ProjectService) Get(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.Get(ctx, id)
}

// ListMine returns every project the user belongs to: the membership query
// first, then any extra IDs recorded on the user document that the query
// missed. The linkage repair itself belongs to the reconciliation pass; this
// read only widens the view.
func (s *ProjectService) ListMine(ctx context.Context, uid string) ([]domain.Project, error) {
	byMembership, err := s.projects.ListByMember(ctx, uid)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(byMembership))
	out := make([]domain.Project, 0, len(byMembership))
	for _, p := range byMembership {
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}

	u, err := s.users.Get(ctx, uid)
	if errors.Is(err, userdomain.ErrNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	for _, id := range u.Projects {
		if _, ok := seen[id]; ok {
			continue
		}
		p, err := s.projects.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			log.Printf("PROJECTS: user %s references missing project %s", uid, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		seen[id] = struct{}{}
		out = append(out, *p)
	}
	return out, nil
}
