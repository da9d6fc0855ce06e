package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// Actor is the authenticated user performing an invitation operation.
type Actor struct {
	UID         string
	Email       string
	DisplayName string
}

// InvitationService reconciles the invitation lifecycle: creating invites
// against existing or not-yet-registered accounts, and finalizing accept and
// reject transitions.
type InvitationService struct {
	invitations InvitationStore
	pending     PendingUserStore
	projects    ProjectStore
	users       UserDirectory
	membership  MembershipUpdater
}

func NewInvitationService(
	invitations InvitationStore,
	pending PendingUserStore,
	projects ProjectStore,
	users UserDirectory,
	membership MembershipUpdater,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		pending:     pending,
		projects:    projects,
		users:       users,
		membership:  membership,
	}
}

// Invite creates a pending invitation to a project and returns its ID. Only
// the project owner or an admin may invite. An email without an account gets
// a placeholder identity so the signup can be matched later.
func (s *InvitationService) Invite(ctx context.Context, projectID, inviteeEmail, role string, actor Actor) (string, error) {
	inviteeEmail = strings.TrimSpace(inviteeEmail)
	if role == "" {
		role = projdomain.RoleMember
	}

	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return "", err
	}
	if !p.CanInvite(actor.UID) {
		return "", domain.ErrPermissionDenied
	}

	invitee, err := s.resolveInvitee(ctx, p, inviteeEmail, actor.UID)
	if err != nil {
		return "", err
	}

	if _, err := s.invitations.FindPending(ctx, projectID, inviteeEmail); err == nil {
		return "", domain.ErrDuplicateInvitation
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	inviterName := actor.DisplayName
	if inviterName == "" {
		inviterName = "A user"
	}

	id, err := s.invitations.Create(ctx, &domain.Invitation{
		ProjectID:    projectID,
		ProjectName:  p.Name,
		InviterID:    actor.UID,
		InviterName:  inviterName,
		InviteeID:    invitee.ID,
		InviteeEmail: inviteeEmail,
		Role:         role,
		Status:       domain.StatusPending,
	})
	if err != nil {
		return "", err
	}

	// The summary on the project document is best effort; the invitation
	// document is the source of truth.
	err = s.projects.AppendPendingInvite(ctx, projectID, projdomain.PendingInvite{
		InvitationID: id,
		Email:        inviteeEmail,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		log.Printf("INVITES: recording invitation %s on project %s failed: %v", id, projectID, err)
	}

	return id, nil
}

// resolveInvitee maps an email to an invitee reference: the existing account,
// or a freshly minted placeholder backed by a pendingUsers document.
func (s *InvitationService) resolveInvitee(ctx context.Context, p *projdomain.Project, email, inviterUID string) (domain.InviteeRef, error) {
	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if p.HasMember(u.UID) {
			return domain.InviteeRef{}, domain.ErrAlreadyMember
		}
		return domain.KnownInvitee(u.UID, email), nil
	case errors.Is(err, userdomain.ErrNotFound):
		ref := domain.PlaceholderInvitee(email)
		if err := s.pending.Create(ctx, ref.ID, email, inviterUID); err != nil {
			return domain.InviteeRef{}, err
		}
		return ref, nil
	default:
		return domain.InviteeRef{}, err
	}
}

// Accept finalizes an invitation for the acting user, adding them to the
// project and the project to them. The invitation must be addressed to the
// actor's email; the recorded invitee ID may be stale or synthetic and is
// superseded by the actor's real UID.
func (s *InvitationService) Accept(ctx context.Context, invitationID string, actor Actor) error {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.InviteeEmail != actor.Email {
		return domain.ErrForbidden
	}
	if inv.Status != domain.StatusPending {
		return domain.ErrAlreadyProcessed
	}

	role := inv.Role
	if role == "" {
		role = projdomain.RoleMember
	}

	p, err := s.projects.Get(ctx, inv.ProjectID)
	if err != nil {
		return err
	}
	if p.HasMember(actor.UID) {
		// Membership already converged (earlier retry); only the terminal
		// status write remains.
		return s.invitations.MarkResponded(ctx, inv.ID, actor.UID, domain.StatusAccepted)
	}

	if err := s.membership.EnsureUser(ctx, actor.UID, actor.Email); err != nil {
		return err
	}

	err = s.invitations.ApplyAccept(ctx, inv, actor.UID, role)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrBatchUnsupported) {
		return err
	}

	// No atomic batch available: membership unions first (idempotent under
	// retry), the terminal status flip last.
	if err := s.membership.AddMember(ctx, inv.ProjectID, actor.UID, actor.Email, role); err != nil {
		return err
	}
	return s.invitations.MarkResponded(ctx, inv.ID, actor.UID, domain.StatusAccepted)
}

// Reject declines an invitation. Same identity and state rules as Accept, no
// membership side effects.
func (s *InvitationService) Reject(ctx context.Context, invitationID string, actor Actor) error {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.InviteeEmail != actor.Email {
		return domain.ErrForbidden
	}
	if inv.Status != domain.StatusPending {
		return domain.ErrAlreadyProcessed
	}
	return s.invitations.MarkResponded(ctx, inv.ID, actor.UID, domain.StatusRejected)
}

// ListMine returns the pending invitations addressed to the actor's email.
func (s *InvitationService) ListMine(ctx context.Context, actor Actor) ([]domain.Invitation, error) {
	return s.invitations.ListPendingByEmail(ctx, actor.Email)
}
