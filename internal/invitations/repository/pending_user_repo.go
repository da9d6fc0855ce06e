package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

// PendingUserRepository manages placeholder documents for invitees without an
// account.
type PendingUserRepository struct {
	client *firestore.Client
}

func NewPendingUserRepository(client *firestore.Client) *PendingUserRepository {
	return &PendingUserRepository{client: client}
}

func (r *PendingUserRepository) coll() *firestore.CollectionRef {
	return r.client.Collection(store.CollPendingUsers)
}

// Create stores a placeholder keyed by the synthetic invitee ID.
func (r *PendingUserRepository) Create(ctx context.Context, placeholderID, email, invitedBy string) error {
	_, err := r.coll().Doc(placeholderID).Set(ctx, map[string]interface{}{
		"email":     email,
		"invitedBy": invitedBy,
		"createdAt": firestore.ServerTimestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to create placeholder for %s: %w", email, store.Classify(err))
	}
	return nil
}

// List returns all outstanding placeholders.
func (r *PendingUserRepository) List(ctx context.Context) ([]domain.PendingUser, error) {
	it := r.coll().Documents(ctx)
	defer it.Stop()

	out := make([]domain.PendingUser, 0, 8)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list placeholders: %w", store.Classify(err))
		}

		var p domain.PendingUser
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode placeholder %s: %w", snap.Ref.ID, err)
		}
		p.ID = snap.Ref.ID
		out = append(out, p)
	}
	return out, nil
}

// DeleteByEmail removes every placeholder recorded for an email. Called once
// the real account exists.
func (r *PendingUserRepository) DeleteByEmail(ctx context.Context, email string) error {
	it := r.coll().Where("email", "==", email).Documents(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to query placeholders for %s: %w", email, store.Classify(err))
		}
		if _, err := snap.Ref.Delete(ctx); err != nil {
			return fmt.Errorf("failed to delete placeholder %s: %w", snap.Ref.ID, store.Classify(err))
		}
	}
}
