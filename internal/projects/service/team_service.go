package service

import (
	"context"
	"errors"
	"log"
	"sort"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

// TeamService derives read-only team views from the store: the effective
// member list (active members plus pending invitees) and per-member activity
// totals.
type TeamService struct {
	projects    ProjectStore
	users       UserStore
	sessions    SessionStore
	invitations InvitationReader
}

func NewTeamService(projects ProjectStore, users UserStore, sessions SessionStore, invitations InvitationReader) *TeamService {
	return &TeamService{
		projects:    projects,
		users:       users,
		sessions:    sessions,
		invitations: invitations,
	}
}

// ListTeam merges the project's active members with its pending invitations.
// Active members come first; invitees appear as pseudo-members named after
// the email local part until they accept.
func (s *TeamService) ListTeam(ctx context.Context, projectID string) ([]domain.TeamMember, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}

	team := make([]domain.TeamMember, 0, len(p.Members))
	for _, uid := range p.Members {
		m := domain.TeamMember{
			ID:   uid,
			Name: "Unknown User",
			Role: p.RoleOf(uid),
		}

		u, err := s.users.Get(ctx, uid)
		switch {
		case err == nil:
			if u.DisplayName != "" {
				m.Name = u.DisplayName
			}
			m.Email = u.Email
			m.PhotoURL = u.PhotoURL
		case errors.Is(err, userdomain.ErrNotFound):
			// Stale member reference; keep the synthetic entry.
		default:
			return nil, err
		}
		team = append(team, m)
	}

	pending, err := s.invitations.ListPendingByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, inv := range pending {
		role := inv.Role
		if role == "" {
			role = domain.RoleMember
		}
		team = append(team, domain.TeamMember{
			ID:      inv.ID,
			Name:    localPart(inv.InviteeEmail),
			Email:   inv.InviteeEmail,
			Role:    role,
			Pending: true,
		})
	}

	return team, nil
}

// MemberActivity sums session time per member for callers that belong to the
// project, most active first. A malformed duration skips that session only.
func (s *TeamService) MemberActivity(ctx context.Context, projectID, actorUID string) ([]domain.MemberActivity, error) {
	p, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !p.HasMember(actorUID) {
		return nil, domain.ErrForbidden
	}

	sessions, err := s.sessions.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]*domain.MemberActivity)
	order := make([]string, 0, len(p.Members))
	for _, sess := range sessions {
		seconds, err := domain.ParseClock(sess.Duration)
		if err != nil {
			log.Printf("TEAM: skipping session %s: %v", sess.ID, err)
			continue
		}

		a, ok := totals[sess.UserID]
		if !ok {
			a = &domain.MemberActivity{
				UserID:      sess.UserID,
				DisplayName: "Unknown User",
				Role:        p.RoleOf(sess.UserID),
			}
			totals[sess.UserID] = a
			order = append(order, sess.UserID)
		}
		a.TotalSeconds += seconds
		a.SessionCount++
	}

	out := make([]domain.MemberActivity, 0, len(order))
	for _, uid := range order {
		a := totals[uid]
		u, err := s.users.Get(ctx, uid)
		switch {
		case err == nil:
			if u.DisplayName != "" {
				a.DisplayName = u.DisplayName
			}
			a.Email = u.Email
			a.PhotoURL = u.PhotoURL
		case errors.Is(err, userdomain.ErrNotFound):
		default:
			return nil, err
		}
		out = append(out, *a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalSeconds > out[j].TotalSeconds
	})
	return out, nil
}
