package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// UserStore is the slice of the user repository the service needs.
type UserStore interface {
	Get(ctx context.Context, uid string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	SetPhotoURL(ctx context.Context, uid, photoURL string) error
	CompleteProfile(ctx context.Context, uid, displayName string) error
	SetDashboardProject(ctx context.Context, uid, projectID string) error
}

// SignupReconciler links invitations addressed to an email to the account that
// now owns it.
type SignupReconciler interface {
	ReconcileSignup(ctx context.Context, uid, email string) error
}

// UserService handles the user lifecycle around sign-in.
type UserService struct {
	users      UserStore
	reconciler SignupReconciler
}

func NewUserService(users UserStore, reconciler SignupReconciler) *UserService {
	return &UserService{users: users, reconciler: reconciler}
}

// SyncInput carries the identity-provider claims for the signed-in principal.
type SyncInput struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Sync creates the user document on first sign-in, or backfills the photo URL
// on later sign-ins, then runs the signup reconciliation pass so invitations
// sent before the account existed attach to it.
func (s *UserService) Sync(ctx context.Context, in SyncInput) (*domain.User, error) {
	u, err := s.users.Get(ctx, in.UID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		now := time.Now()
		name := in.DisplayName
		if name == "" {
			name = "User"
		}
		u = &domain.User{
			UID:         in.UID,
			Email:       in.Email,
			DisplayName: name,
			PhotoURL:    in.PhotoURL,
			Projects:    []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if u.PhotoURL == "" && in.PhotoURL != "" {
			if err := s.users.SetPhotoURL(ctx, in.UID, in.PhotoURL); err != nil {
				return nil, err
			}
			u.PhotoURL = in.PhotoURL
		}
	}

	// The scheduled sweep retries any linking that fails here.
	if s.reconciler != nil && in.Email != "" {
		if err := s.reconciler.ReconcileSignup(ctx, in.UID, in.Email); err != nil {
			log.Printf("USERS: signup reconciliation for %s failed: %v", in.Email, err)
		}
	}

	return u, nil
}

func (s *UserService) Get(ctx context.Context, uid string) (*domain.User, error) {
	return s.users.Get(ctx, uid)
}

func (s *UserService) CompleteProfile(ctx context.Context, uid, displayName string) error {
	return s.users.CompleteProfile(ctx, uid, displayName)
}

func (s *UserService) SetDashboardProject(ctx context.Context, uid, projectID string) error {
	return s.users.SetDashboardProject(ctx, uid, projectID)
}
