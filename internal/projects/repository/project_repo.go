package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	"github.com/tracklight-app/tracklight-backend/internal/store"
)

// ProjectRepository provides persistence operations for project documents.
type ProjectRepository struct {
	client *firestore.Client
}

func NewProjectRepository(client *firestore.Client) *ProjectRepository {
	return &ProjectRepository{client: client}
}

func (r *ProjectRepository) doc(id string) *firestore.DocumentRef {
	return r.client.Collection(store.CollProjects).Doc(id)
}

// Get retrieves a project by document ID.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	snap, err := r.doc(id).Get(ctx)
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project %s: %w", id, store.Classify(err))
	}

	var p domain.Project
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	p.ID = snap.Ref.ID
	return &p, nil
}

// Create inserts a new project document with store-assigned timestamps.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) (string, error) {
	if p.Name == "" {
		return "", fmt.Errorf("name required")
	}
	if p.OwnerID == "" {
		return "", fmt.Errorf("owner id required")
	}

	ref, _, err := r.client.Collection(store.CollProjects).Add(ctx, map[string]interface{}{
		"name":               p.Name,
		"description":        p.Description,
		"ownerId":            p.OwnerID,
		"members":            p.Members,
		"memberRoles":        p.MemberRoles,
		"pendingInvitations": []domain.PendingInvite{},
		"createdAt":          firestore.ServerTimestamp,
		"updatedAt":          firestore.ServerTimestamp,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create project: %w", store.Classify(err))
	}
	return ref.ID, nil
}

// ListByMember returns all projects whose members array contains uid, newest
// first.
func (r *ProjectRepository) ListByMember(ctx context.Context, uid string) ([]domain.Project, error) {
	it := r.client.Collection(store.CollProjects).
		Where("members", "array-contains", uid).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx)
	defer it.Stop()

	out := make([]domain.Project, 0, 8)
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list projects for %s: %w", uid, store.Classify(err))
		}

		var p domain.Project
		if err := snap.DataTo(&p); err != nil {
			return nil, fmt.Errorf("failed to decode project %s: %w", snap.Ref.ID, err)
		}
		p.ID = snap.Ref.ID
		out = append(out, p)
	}
	return out, nil
}

// AddMember unions uid into the members array and records its role. Additive
// operators only: concurrent accepts by other invitees must both survive.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, uid, role string) error {
	_, err := r.doc(projectID).Update(ctx, []firestore.Update{
		{Path: "members", Value: firestore.ArrayUnion(uid)},
		{Path: "memberRoles." + uid, Value: role},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to add member %s to project %s: %w", uid, projectID, store.Classify(err))
	}
	return nil
}

// AppendPendingInvite unions an invitation summary into the project document.
func (r *ProjectRepository) AppendPendingInvite(ctx context.Context, projectID string, inv domain.PendingInvite) error {
	_, err := r.doc(projectID).Update(ctx, []firestore.Update{
		{Path: "pendingInvitations", Value: firestore.ArrayUnion(inv)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to record invitation on project %s: %w", projectID, store.Classify(err))
	}
	return nil
}
