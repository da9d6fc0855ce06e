package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

// InvitationRepository provides persistence operations for invitation
// documents.
type InvitationRepository struct {
	client *firestore.Client
}

func NewInvitationRepository(client *firestore.Client) *InvitationRepository {
	return &InvitationRepository{client: client}
}

func (r *InvitationRepository) coll() *firestore.CollectionRef {
	return r.client.Collection(store.CollInvitations)
}

// Create inserts a new pending invitation.
func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) (string, error) {
	ref, _, err := r.coll().Add(ctx, map[string]interface{}{
		"projectId":    inv.ProjectID,
		"projectName":  inv.ProjectName,
		"inviterId":    inv.InviterID,
		"inviterName":  inv.InviterName,
		"inviteeId":    inv.InviteeID,
		"inviteeEmail": inv.InviteeEmail,
		"role":         inv.Role,
		"status":       domain.StatusPending,
		"createdAt":    firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create invitation: %w", store.Classify(err))
	}
	return ref.ID, nil
}

// GetByID retrieves an invitation by document ID.
func (r *InvitationRepository) GetByID(ctx context.Context, id string) (*domain.Invitation, error) {
	snap, err := r.coll().Doc(id).Get(ctx)
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation %s: %w", id, store.Classify(err))
	}
	return r.decode(snap)
}

// FindPending returns the pending invitation for (projectID, email), or
// ErrNotFound when none exists.
func (r *InvitationRepository) FindPending(ctx context.Context, projectID, email string) (*domain.Invitation, error) {
	it := r.coll().
		Where("projectId", "==", projectID).
		Where("inviteeEmail", "==", email).
		Where("status", "==", domain.StatusPending).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query pending invitation: %w", store.Classify(err))
	}
	return r.decode(snap)
}

// ListPendingByEmail returns all pending invitations addressed to an email.
// Invitations are matched by email, not invitee ID: the recorded ID may still
// be a placeholder.
func (r *InvitationRepository) ListPendingByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	return r.list(ctx, r.coll().
		Where("inviteeEmail", "==", email).
		Where("status", "==", domain.StatusPending))
}

// ListByEmail returns every invitation addressed to an email, any status.
func (r *InvitationRepository) ListByEmail(ctx context.Context, email string) ([]domain.Invitation, error) {
	return r.list(ctx, r.coll().Where("inviteeEmail", "==", email))
}

// ListPendingByProject returns a project's outstanding invitations.
func (r *InvitationRepository) ListPendingByProject(ctx context.Context, projectID string) ([]domain.Invitation, error) {
	return r.list(ctx, r.coll().
		Where("projectId", "==", projectID).
		Where("status", "==", domain.StatusPending))
}

// MarkResponded finalizes an invitation: terminal status, response time, and
// the responder's real UID superseding whatever inviteeId was recorded.
func (r *InvitationRepository) MarkResponded(ctx context.Context, id, inviteeID, status string) error {
	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "inviteeId", Value: inviteeID},
		{Path: "status", Value: status},
		{Path: "respondedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to finalize invitation %s: %w", id, store.Classify(err))
	}
	return nil
}

// Reassign rewrites the invitee ID without touching the status. Used by the
// reconciliation pass to resolve placeholders.
func (r *InvitationRepository) Reassign(ctx context.Context, id, inviteeID string) error {
	_, err := r.coll().Doc(id).Update(ctx, []firestore.Update{
		{Path: "inviteeId", Value: inviteeID},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to reassign invitation %s: %w", id, store.Classify(err))
	}
	return nil
}

// ApplyAccept commits an acceptance as one atomic batch: membership union on
// the project, project-list union on the user, then the terminal invitation
// update. Either all three documents change or none do.
func (r *InvitationRepository) ApplyAccept(ctx context.Context, inv *domain.Invitation, uid, role string) error {
	batch := r.client.Batch()

	projectRef := r.client.Collection(store.CollProjects).Doc(inv.ProjectID)
	batch.Update(projectRef, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(uid)},
		{Path: "memberRoles." + uid, Value: role},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})

	userRef := r.client.Collection(store.CollUsers).Doc(uid)
	batch.Update(userRef, []firestore.Update{
		{Path: "projects", Value: firestore.ArrayUnion(inv.ProjectID)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})

	invRef := r.coll().Doc(inv.ID)
	batch.Update(invRef, []firestore.Update{
		{Path: "inviteeId", Value: uid},
		{Path: "status", Value: domain.StatusAccepted},
		{Path: "respondedAt", Value: firestore.ServerTimestamp},
	})

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit acceptance of %s: %w", inv.ID, store.Classify(err))
	}
	return nil
}

// WatchProject emits a signal for every change to the project's invitation
// set, including the initial snapshot. The channel closes when ctx is done or
// the subscription fails.
func (r *InvitationRepository) WatchProject(ctx context.Context, projectID string) (<-chan struct{}, error) {
	snaps := r.coll().Where("projectId", "==", projectID).Snapshots(ctx)

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		defer snaps.Stop()
		for {
			if _, err := snaps.Next(); err != nil {
				return
			}
			select {
			case ch <- struct{}{}:
			default:
				// A refresh is already queued; coalesce.
			}
		}
	}()
	return ch, nil
}

func (r *InvitationRepository) list(ctx context.Context, q firestore.Query) ([]domain.Invitation, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	out := make([]domain.Invitation, 0, 8)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list invitations: %w", store.Classify(err))
		}

		inv, err := r.decode(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (r *InvitationRepository) decode(snap *firestore.DocumentSnapshot) (*domain.Invitation, error) {
	var inv domain.Invitation
	if err := snap.DataTo(&inv); err != nil {
		return nil, fmt.Errorf("failed to decode invitation %s: %w", snap.Ref.ID, err)
	}
	inv.ID = snap.Ref.ID
	return &inv, nil
}
