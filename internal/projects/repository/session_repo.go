package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

// SessionRepository reads tracked time sessions. The timer writes them; this
// side only aggregates.
type SessionRepository struct {
	client *firestore.Client
}

func NewSessionRepository(client *firestore.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

// ListByProject returns all sessions recorded against a project.
func (r *SessionRepository) ListByProject(ctx context.Context, projectID string) ([]domain.Session, error) {
	it := r.client.Collection(store.CollSessions).
		Where("projectId", "==", projectID).
		Documents(ctx)
	defer it.Stop()

	out := make([]domain.Session, 0, 16)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions for project %s: %w", projectID, store.Classify(err))
		}

		var s domain.Session
		if err := snap.DataTo(&s); err != nil {
			return nil, fmt.Errorf("failed to decode session %s: %w", snap.Ref.ID, err)
		}
		s.ID = snap.Ref.ID
		out = append(out, s)
	}
	return out, nil
}
