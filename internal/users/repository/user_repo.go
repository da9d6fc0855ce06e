package repository

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"github.com/tracklight-app/tracklight-backend/internal/store"
	"github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// UserRepository provides persistence operations for user documents.
type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) doc(uid string) *firestore.DocumentRef {
	return r.client.Collection(store.CollUsers).Doc(uid)
}

// Get retrieves a user document by UID.
func (r *UserRepository) Get(ctx context.Context, uid string) (*domain.User, error) {
	snap, err := r.doc(uid).Get(ctx)
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", uid, store.Classify(err))
	}

	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", uid, err)
	}
	u.UID = snap.Ref.ID
	return &u, nil
}

// GetByEmail looks up a user document by its email field.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	it := r.client.Collection(store.CollUsers).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer it.Stop()

	snap, err := it.Next()
	if err == iterator.Done {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", store.Classify(err))
	}

	var u domain.User
	if err := snap.DataTo(&u); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	u.UID = snap.Ref.ID
	return &u, nil
}

// Create writes a new user document keyed by UID.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.UID == "" {
		return fmt.Errorf("user uid required")
	}
	if u.Projects == nil {
		u.Projects = []string{}
	}

	if _, err := r.doc(u.UID).Set(ctx, u); err != nil {
		return fmt.Errorf("failed to create user %s: %w", u.UID, store.Classify(err))
	}
	return nil
}

// AddProject unions a project ID into the user's project list. Concurrent
// accepts to other projects must never be overwritten, so this is always an
// additive ArrayUnion, never a full write of the list.
func (r *UserRepository) AddProject(ctx context.Context, uid, projectID string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "projects", Value: firestore.ArrayUnion(projectID)},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to add project to user %s: %w", uid, store.Classify(err))
	}
	return nil
}

// ReplaceProjects rewrites the full project list. Only the membership repair
// path uses this, after re-reading the document.
func (r *UserRepository) ReplaceProjects(ctx context.Context, uid string, projects []string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "projects", Value: projects},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		return fmt.Errorf("failed to replace projects for user %s: %w", uid, store.Classify(err))
	}
	return nil
}

// SetPhotoURL backfills the photo URL on an existing user document.
func (r *UserRepository) SetPhotoURL(ctx context.Context, uid, photoURL string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "photoURL", Value: photoURL},
	})
	if err != nil {
		return fmt.Errorf("failed to set photo for user %s: %w", uid, store.Classify(err))
	}
	return nil
}

// CompleteProfile marks the profile completed and stores the chosen name.
func (r *UserRepository) CompleteProfile(ctx context.Context, uid, displayName string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "displayName", Value: displayName},
		{Path: "profileCompleted", Value: true},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to complete profile for user %s: %w", uid, store.Classify(err))
	}
	return nil
}

// SetDashboardProject stores the last-viewed project preference.
func (r *UserRepository) SetDashboardProject(ctx context.Context, uid, projectID string) error {
	_, err := r.doc(uid).Update(ctx, []firestore.Update{
		{Path: "dashboardProjectId", Value: projectID},
		{Path: "updatedAt", Value: firestore.ServerTimestamp},
	})
	if err != nil {
		if errors.Is(store.Classify(err), store.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to set dashboard project for user %s: %w", uid, store.Classify(err))
	}
	return nil
}
