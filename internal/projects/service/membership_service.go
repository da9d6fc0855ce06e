package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// MembershipService applies the side effects of joining a project: the user
// lands in the project's members and roles, and the project lands in the
// user's project list. Every write is a set union, so retries and concurrent
// accepts converge to the same state.
type MembershipService struct {
	projects ProjectStore
	users    UserStore
}

func NewMembershipService(projects ProjectStore, users UserStore) *MembershipService {
	return &MembershipService{projects: projects, users: users}
}

// AddMember adds uid to the project with the given role and links the project
// back onto the user document. Calling it twice leaves the same state as
// calling it once.
func (s *MembershipService) AddMember(ctx context.Context, projectID, uid, email, role string) error {
	if role == "" {
		role = domain.RoleMember
	}

	if err := s.EnsureUser(ctx, uid, email); err != nil {
		return err
	}

	if err := s.projects.AddMember(ctx, projectID, uid, role); err != nil {
		return err
	}

	if err := s.users.AddProject(ctx, uid, projectID); err != nil {
		return s.repairUserProjects(ctx, uid, projectID, err)
	}
	return nil
}

// EnsureUser creates a minimal user document when none exists yet, so
// membership writes against it cannot fail on a missing document.
func (s *MembershipService) EnsureUser(ctx context.Context, uid, email string) error {
	_, err := s.users.Get(ctx, uid)
	if errors.Is(err, userdomain.ErrNotFound) {
		now := time.Now()
		return s.users.Create(ctx, &userdomain.User{
			UID:         uid,
			Email:       email,
			DisplayName: localPart(email),
			Projects:    []string{},
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return err
}

// repairUserProjects handles a failed projects write after the project side
// already succeeded: re-read the user document and re-apply the union.
// Concurrent accepts may have appended other project IDs in the meantime, so
// the list is never rebuilt from scratch.
func (s *MembershipService) repairUserProjects(ctx context.Context, uid, projectID string, cause error) error {
	u, err := s.users.Get(ctx, uid)
	if err != nil {
		return fmt.Errorf("user projects update failed: %v (re-read: %w)", cause, err)
	}
	if u.HasProject(projectID) {
		return nil
	}
	return s.users.ReplaceProjects(ctx, uid, append(u.Projects, projectID))
}

// localPart derives a display name from the part of an email before the @.
func localPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	if email != "" {
		return email
	}
	return "User"
}
