package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	projdomain "github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

type fakeInvitationStore struct {
	byID     map[string]*domain.Invitation
	order    []string
	nextID   int
	batchErr error

	applyAcceptCalls int
}

func newFakeInvitationStore() *fakeInvitationStore {
	return &fakeInvitationStore{byID: map[string]*domain.Invitation{}}
}

func (f *fakeInvitationStore) add(inv domain.Invitation) string {
	f.nextID++
	id := fmt.Sprintf("inv-%d", f.nextID)
	inv.ID = id
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	f.byID[id] = &inv
	f.order = append(f.order, id)
	return id
}

func (f *fakeInvitationStore) Create(_ context.Context, inv *domain.Invitation) (string, error) {
	return f.add(*inv), nil
}

func (f *fakeInvitationStore) GetByID(_ context.Context, id string) (*domain.Invitation, error) {
	inv, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationStore) FindPending(_ context.Context, projectID, email string) (*domain.Invitation, error) {
	for _, id := range f.order {
		inv := f.byID[id]
		if inv.ProjectID == projectID && inv.InviteeEmail == email && inv.Status == domain.StatusPending {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeInvitationStore) ListPendingByEmail(_ context.Context, email string) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for _, id := range f.order {
		inv := f.byID[id]
		if inv.InviteeEmail == email && inv.Status == domain.StatusPending {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) ListByEmail(_ context.Context, email string) ([]domain.Invitation, error) {
	var out []domain.Invitation
	for _, id := range f.order {
		inv := f.byID[id]
		if inv.InviteeEmail == email {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (f *fakeInvitationStore) MarkResponded(_ context.Context, id, inviteeID, status string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.InviteeID = inviteeID
	inv.Status = status
	inv.RespondedAt = time.Now()
	return nil
}

func (f *fakeInvitationStore) Reassign(_ context.Context, id, inviteeID string) error {
	inv, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	inv.InviteeID = inviteeID
	return nil
}

func (f *fakeInvitationStore) ApplyAccept(ctx context.Context, inv *domain.Invitation, uid, role string) error {
	f.applyAcceptCalls++
	if f.batchErr != nil {
		return f.batchErr
	}
	return f.MarkResponded(ctx, inv.ID, uid, domain.StatusAccepted)
}

type fakePendingUserStore struct {
	byID      map[string]domain.PendingUser
	order     []string
	deleteErr error
}

func newFakePendingUserStore() *fakePendingUserStore {
	return &fakePendingUserStore{byID: map[string]domain.PendingUser{}}
}

func (f *fakePendingUserStore) Create(_ context.Context, placeholderID, email, invitedBy string) error {
	f.byID[placeholderID] = domain.PendingUser{
		ID:        placeholderID,
		Email:     email,
		InvitedBy: invitedBy,
		CreatedAt: time.Now(),
	}
	f.order = append(f.order, placeholderID)
	return nil
}

func (f *fakePendingUserStore) List(_ context.Context) ([]domain.PendingUser, error) {
	out := make([]domain.PendingUser, 0, len(f.order))
	for _, id := range f.order {
		if pu, ok := f.byID[id]; ok {
			out = append(out, pu)
		}
	}
	return out, nil
}

func (f *fakePendingUserStore) DeleteByEmail(_ context.Context, email string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	kept := f.order[:0]
	for _, id := range f.order {
		if f.byID[id].Email == email {
			delete(f.byID, id)
			continue
		}
		kept = append(kept, id)
	}
	f.order = kept
	return nil
}

type fakeProjectStore struct {
	byID      map[string]*projdomain.Project
	appended  map[string][]projdomain.PendingInvite
	appendErr error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{
		byID:     map[string]*projdomain.Project{},
		appended: map[string][]projdomain.PendingInvite{},
	}
}

func (f *fakeProjectStore) Get(_ context.Context, id string) (*projdomain.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, projdomain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) AppendPendingInvite(_ context.Context, projectID string, inv projdomain.PendingInvite) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.appended[projectID] = append(f.appended[projectID], inv)
	return nil
}

type fakeUserDirectory struct {
	byUID map[string]*userdomain.User
}

func newFakeUserDirectory(users ...*userdomain.User) *fakeUserDirectory {
	f := &fakeUserDirectory{byUID: map[string]*userdomain.User{}}
	for _, u := range users {
		f.byUID[u.UID] = u
	}
	return f
}

func (f *fakeUserDirectory) Get(_ context.Context, uid string) (*userdomain.User, error) {
	u, ok := f.byUID[uid]
	if !ok {
		return nil, userdomain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserDirectory) GetByEmail(_ context.Context, email string) (*userdomain.User, error) {
	for _, u := range f.byUID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, userdomain.ErrNotFound
}

type memberKey struct {
	projectID, uid string
}

type fakeMembership struct {
	ensured []string
	members map[memberKey]string
	addErr  error
}

func newFakeMembership() *fakeMembership {
	return &fakeMembership{members: map[memberKey]string{}}
}

func (f *fakeMembership) EnsureUser(_ context.Context, uid, email string) error {
	f.ensured = append(f.ensured, uid)
	return nil
}

func (f *fakeMembership) AddMember(_ context.Context, projectID, uid, email, role string) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.members[memberKey{projectID, uid}] = role
	return nil
}

func (f *fakeMembership) hasMember(projectID, uid string) bool {
	_, ok := f.members[memberKey{projectID, uid}]
	return ok
}

func placeholderCount(pending *fakePendingUserStore) int {
	n := 0
	for _, id := range pending.order {
		if strings.HasPrefix(id, "pending_") {
			n++
		}
	}
	return n
}
