package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

type inviteFixture struct {
	svc         *InvitationService
	invitations *fakeInvitationStore
	pending     *fakePendingUserStore
	projects    *fakeProjectStore
	users       *fakeUserDirectory
	membership  *fakeMembership
}

func setupInvitationService(t *testing.T) *inviteFixture {
	t.Helper()

	f := &inviteFixture{
		invitations: newFakeInvitationStore(),
		pending:     newFakePendingUserStore(),
		projects:    newFakeProjectStore(),
		users: newFakeUserDirectory(
			&userdomain.User{UID: "owner-1", Email: "owner@example.com", DisplayName: "Olive Owner"},
			&userdomain.User{UID: "member-1", Email: "member@example.com", DisplayName: "Manny Member"},
			&userdomain.User{UID: "friend-1", Email: "friend@example.com", DisplayName: "Fred Friend"},
		),
		membership: newFakeMembership(),
	}

	f.projects.byID["proj-1"] = &projdomain.Project{
		ID:      "proj-1",
		Name:    "Website Redesign",
		OwnerID: "owner-1",
		Members: []string{"owner-1", "member-1"},
		MemberRoles: map[string]string{
			"owner-1":  projdomain.RoleOwner,
			"member-1": projdomain.RoleMember,
		},
	}

	f.svc = NewInvitationService(f.invitations, f.pending, f.projects, f.users, f.membership)
	return f
}

func owner() Actor {
	return Actor{UID: "owner-1", Email: "owner@example.com", DisplayName: "Olive Owner"}
}

func TestInvitationService_Invite(t *testing.T) {
	ctx := context.Background()

	t.Run("invites an existing account", func(t *testing.T) {
		f := setupInvitationService(t)

		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)
		require.NotEmpty(t, id)

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "friend-1", inv.InviteeID)
		assert.Equal(t, "friend@example.com", inv.InviteeEmail)
		assert.Equal(t, projdomain.RoleMember, inv.Role)
		assert.Equal(t, domain.StatusPending, inv.Status)
		assert.Equal(t, "Website Redesign", inv.ProjectName)
		assert.Equal(t, "Olive Owner", inv.InviterName)

		assert.Zero(t, placeholderCount(f.pending))

		require.Len(t, f.projects.appended["proj-1"], 1)
		assert.Equal(t, id, f.projects.appended["proj-1"][0].InvitationID)
	})

	t.Run("mints a placeholder for an unknown email", func(t *testing.T) {
		f := setupInvitationService(t)

		id, err := f.svc.Invite(ctx, "proj-1", "newcomer@example.com", "Admin", owner())
		require.NoError(t, err)

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.True(t, inv.Invitee().Placeholder())
		assert.Equal(t, "Admin", inv.Role)

		require.Equal(t, 1, placeholderCount(f.pending))
		placeholders, err := f.pending.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "newcomer@example.com", placeholders[0].Email)
		assert.Equal(t, "owner-1", placeholders[0].InvitedBy)
	})

	t.Run("trims whitespace around the email", func(t *testing.T) {
		f := setupInvitationService(t)

		id, err := f.svc.Invite(ctx, "proj-1", "  friend@example.com  ", "", owner())
		require.NoError(t, err)

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "friend@example.com", inv.InviteeEmail)
	})

	t.Run("rejects a non-privileged inviter", func(t *testing.T) {
		f := setupInvitationService(t)

		_, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", Actor{UID: "member-1", Email: "member@example.com"})
		assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	})

	t.Run("allows an admin to invite", func(t *testing.T) {
		f := setupInvitationService(t)
		f.projects.byID["proj-1"].MemberRoles["member-1"] = projdomain.RoleAdmin

		_, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", Actor{UID: "member-1", Email: "member@example.com"})
		assert.NoError(t, err)
	})

	t.Run("rejects inviting a current member", func(t *testing.T) {
		f := setupInvitationService(t)

		_, err := f.svc.Invite(ctx, "proj-1", "member@example.com", "", owner())
		assert.ErrorIs(t, err, domain.ErrAlreadyMember)
	})

	t.Run("rejects a duplicate pending invitation", func(t *testing.T) {
		f := setupInvitationService(t)

		_, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)

		_, err = f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		assert.ErrorIs(t, err, domain.ErrDuplicateInvitation)
	})

	t.Run("allows re-inviting after a rejection", func(t *testing.T) {
		f := setupInvitationService(t)

		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)
		require.NoError(t, f.invitations.MarkResponded(ctx, id, "friend-1", domain.StatusRejected))

		_, err = f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		assert.NoError(t, err)
	})

	t.Run("succeeds even when the project summary write fails", func(t *testing.T) {
		f := setupInvitationService(t)
		f.projects.appendErr = errors.New("unavailable")

		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)

		_, err = f.invitations.GetByID(ctx, id)
		assert.NoError(t, err)
	})

	t.Run("unknown project", func(t *testing.T) {
		f := setupInvitationService(t)

		_, err := f.svc.Invite(ctx, "proj-missing", "friend@example.com", "", owner())
		assert.ErrorIs(t, err, projdomain.ErrNotFound)
	})
}

func TestInvitationService_Accept(t *testing.T) {
	ctx := context.Background()
	friend := Actor{UID: "friend-1", Email: "friend@example.com", DisplayName: "Fred Friend"}

	invite := func(t *testing.T, f *inviteFixture, email, role string) string {
		t.Helper()
		id, err := f.svc.Invite(ctx, "proj-1", email, role, owner())
		require.NoError(t, err)
		return id
	}

	t.Run("atomic accept", func(t *testing.T) {
		f := setupInvitationService(t)
		id := invite(t, f, "friend@example.com", "")

		require.NoError(t, f.svc.Accept(ctx, id, friend))

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, inv.Status)
		assert.Equal(t, "friend-1", inv.InviteeID)
		assert.Contains(t, f.membership.ensured, "friend-1")
		assert.Equal(t, 1, f.invitations.applyAcceptCalls)
	})

	t.Run("falls back to sequential writes without batch support", func(t *testing.T) {
		f := setupInvitationService(t)
		f.invitations.batchErr = domain.ErrBatchUnsupported
		id := invite(t, f, "friend@example.com", "Admin")

		require.NoError(t, f.svc.Accept(ctx, id, friend))

		assert.True(t, f.membership.hasMember("proj-1", "friend-1"))
		assert.Equal(t, "Admin", f.membership.members[memberKey{"proj-1", "friend-1"}])

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, inv.Status)
		assert.Equal(t, "friend-1", inv.InviteeID)
	})

	t.Run("placeholder invitee resolves to the actor UID", func(t *testing.T) {
		f := setupInvitationService(t)
		id := invite(t, f, "newcomer@example.com", "")
		f.users.byUID["new-uid"] = &userdomain.User{UID: "new-uid", Email: "newcomer@example.com"}

		newcomer := Actor{UID: "new-uid", Email: "newcomer@example.com"}
		require.NoError(t, f.svc.Accept(ctx, id, newcomer))

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "new-uid", inv.InviteeID)
		assert.False(t, inv.Invitee().Placeholder())
	})

	t.Run("wrong email is forbidden", func(t *testing.T) {
		f := setupInvitationService(t)
		id := invite(t, f, "friend@example.com", "")

		err := f.svc.Accept(ctx, id, Actor{UID: "other", Email: "other@example.com"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("already processed", func(t *testing.T) {
		f := setupInvitationService(t)
		id := invite(t, f, "friend@example.com", "")
		require.NoError(t, f.svc.Accept(ctx, id, friend))

		err := f.svc.Accept(ctx, id, friend)
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})

	t.Run("existing member only gets the status flip", func(t *testing.T) {
		f := setupInvitationService(t)
		id := invite(t, f, "friend@example.com", "")
		f.projects.byID["proj-1"].Members = append(f.projects.byID["proj-1"].Members, "friend-1")

		require.NoError(t, f.svc.Accept(ctx, id, friend))

		assert.Zero(t, f.invitations.applyAcceptCalls)
		assert.False(t, f.membership.hasMember("proj-1", "friend-1"))

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusAccepted, inv.Status)
	})

	t.Run("unknown invitation", func(t *testing.T) {
		f := setupInvitationService(t)

		err := f.svc.Accept(ctx, "inv-missing", friend)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestInvitationService_Reject(t *testing.T) {
	ctx := context.Background()
	friend := Actor{UID: "friend-1", Email: "friend@example.com"}

	t.Run("marks rejected without membership changes", func(t *testing.T) {
		f := setupInvitationService(t)
		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)

		require.NoError(t, f.svc.Reject(ctx, id, friend))

		inv, err := f.invitations.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, inv.Status)
		assert.False(t, inv.RespondedAt.IsZero())
		assert.Empty(t, f.membership.members)
	})

	t.Run("wrong email is forbidden", func(t *testing.T) {
		f := setupInvitationService(t)
		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)

		err = f.svc.Reject(ctx, id, Actor{UID: "other", Email: "other@example.com"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("already processed", func(t *testing.T) {
		f := setupInvitationService(t)
		id, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
		require.NoError(t, err)
		require.NoError(t, f.svc.Reject(ctx, id, friend))

		err = f.svc.Reject(ctx, id, friend)
		assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	})
}

func TestInvitationService_ListMine(t *testing.T) {
	ctx := context.Background()
	f := setupInvitationService(t)

	id1, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
	require.NoError(t, err)
	require.NoError(t, f.invitations.MarkResponded(ctx, id1, "friend-1", domain.StatusRejected))

	id2, err := f.svc.Invite(ctx, "proj-1", "friend@example.com", "", owner())
	require.NoError(t, err)

	items, err := f.svc.ListMine(ctx, Actor{UID: "friend-1", Email: "friend@example.com"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id2, items[0].ID)
	assert.Equal(t, domain.StatusPending, items[0].Status)
}

func TestNewPlaceholderID(t *testing.T) {
	id := domain.NewPlaceholderID()

	assert.True(t, domain.InviteeRef{ID: id}.Placeholder())
	assert.NotEqual(t, id, domain.NewPlaceholderID())

	i := strings.LastIndex(id, "_")
	require.Positive(t, i)
	assert.Len(t, id[i+1:], 7)
}
