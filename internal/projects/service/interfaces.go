package service

import (
	"context"

	invdomain "github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// ProjectStore is the slice of the project repository the services need.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*domain.Project, error)
	Create(ctx context.Context, p *domain.Project) (string, error)
	ListByMember(ctx context.Context, uid string) ([]domain.Project, error)
	AddMember(ctx context.Context, projectID, uid, role string) error
}

// UserStore is the slice of the user repository the services need.
type UserStore interface {
	Get(ctx context.Context, uid string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
	AddProject(ctx context.Context, uid, projectID string) error
	ReplaceProjects(ctx context.Context, uid string, projects []string) error
}

// SessionStore reads tracked time entries.
type SessionStore interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Session, error)
}

// InvitationReader exposes the pending invitations of a project.
type InvitationReader interface {
	ListPendingByProject(ctx context.Context, projectID string) ([]invdomain.Invitation, error)
}

// InvitationEvents signals whenever a project's invitation set changes.
type InvitationEvents interface {
	WatchProject(ctx context.Context, projectID string) (<-chan struct{}, error)
}

// TeamSink receives recomputed team lists.
type TeamSink interface {
	SetTeam(ctx context.Context, projectID string, members []domain.TeamMember) error
	PublishChanged(ctx context.Context, projectID string, members []domain.TeamMember) error
}
