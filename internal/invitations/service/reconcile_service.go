package service

import (
	"context"
	"errors"
	"log"

	"golang.org/x/time/rate"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// ReconcileService links placeholder identities to the real accounts that
// eventually own them. Safe to run repeatedly: rebinding is a plain rewrite
// of the invitee ID and all membership writes are set unions.
type ReconcileService struct {
	invitations InvitationStore
	pending     PendingUserStore
	users       UserDirectory
	membership  MembershipUpdater
}

func NewReconcileService(
	invitations InvitationStore,
	pending PendingUserStore,
	users UserDirectory,
	membership MembershipUpdater,
) *ReconcileService {
	return &ReconcileService{
		invitations: invitations,
		pending:     pending,
		users:       users,
		membership:  membership,
	}
}

// ReconcileSignup attaches all invitations addressed to email onto the
// account uid. Pending invitations get their placeholder invitee ID rebound;
// accepted ones are re-applied so membership and the user's project list
// converge even if the original acceptance only half-landed. Matching
// placeholder documents are removed afterwards.
func (s *ReconcileService) ReconcileSignup(ctx context.Context, uid, email string) error {
	invs, err := s.invitations.ListByEmail(ctx, email)
	if err != nil {
		return err
	}

	for i := range invs {
		inv := &invs[i]
		switch inv.Status {
		case domain.StatusPending:
			if inv.InviteeID != uid {
				if err := s.invitations.Reassign(ctx, inv.ID, uid); err != nil {
					return err
				}
			}
		case domain.StatusAccepted:
			role := inv.Role
			if role == "" {
				role = projdomain.RoleMember
			}
			if err := s.membership.AddMember(ctx, inv.ProjectID, uid, email, role); err != nil {
				return err
			}
			if inv.InviteeID != uid {
				if err := s.invitations.Reassign(ctx, inv.ID, uid); err != nil {
					return err
				}
			}
		}
	}

	if err := s.pending.DeleteByEmail(ctx, email); err != nil {
		// Placeholders are advisory once the account exists.
		log.Printf("RECONCILE: removing placeholder for %s failed: %v", email, err)
	}
	return nil
}

// Sweep walks all outstanding placeholders and relinks those whose invitee
// has signed up since, covering clients that never hit the sync endpoint.
// limiter paces the per-placeholder store reads; pass nil for no pacing.
// Returns how many placeholders were linked.
func (s *ReconcileService) Sweep(ctx context.Context, limiter *rate.Limiter) (int, error) {
	placeholders, err := s.pending.List(ctx)
	if err != nil {
		return 0, err
	}

	linked := 0
	for _, ph := range placeholders {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return linked, err
			}
		}

		u, err := s.users.GetByEmail(ctx, ph.Email)
		if errors.Is(err, userdomain.ErrNotFound) {
			continue
		}
		if err != nil {
			return linked, err
		}

		if err := s.ReconcileSignup(ctx, u.UID, ph.Email); err != nil {
			log.Printf("RECONCILE: linking %s failed: %v", ph.Email, err)
			continue
		}
		linked++
	}
	return linked, nil
}
