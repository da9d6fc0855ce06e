package service

import (
	"context"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// InvitationStore is the slice of the invitation repository the reconciler
// needs.
type InvitationStore interface {
	Create(ctx context.Context, inv *domain.Invitation) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Invitation, error)
	FindPending(ctx context.Context, projectID, email string) (*domain.Invitation, error)
	ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	ListByEmail(ctx context.Context, email string) ([]domain.Invitation, error)
	MarkResponded(ctx context.Context, id, inviteeID, status string) error
	Reassign(ctx context.Context, id, inviteeID string) error
	ApplyAccept(ctx context.Context, inv *domain.Invitation, uid, role string) error
}

// PendingUserStore manages placeholder identities.
type PendingUserStore interface {
	Create(ctx context.Context, placeholderID, email, invitedBy string) error
	List(ctx context.Context) ([]domain.PendingUser, error)
	DeleteByEmail(ctx context.Context, email string) error
}

// ProjectStore is the slice of the project repository the reconciler needs.
type ProjectStore interface {
	Get(ctx context.Context, id string) (*projdomain.Project, error)
	AppendPendingInvite(ctx context.Context, projectID string, inv projdomain.PendingInvite) error
}

// UserDirectory resolves accounts by UID or email.
type UserDirectory interface {
	Get(ctx context.Context, uid string) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
}

// MembershipUpdater applies the membership side effects of an acceptance.
type MembershipUpdater interface {
	EnsureUser(ctx context.Context, uid, email string) error
	AddMember(ctx context.Context, projectID, uid, email, role string) error
}
