package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	invdomain "github.com/tracklight-app/tracklight-backend/internal/invitations/domain"
	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
	userdomain "github.com/tracklight-app/tracklight-backend/internal/users/domain"
)

type fakeProjectStore struct {
	byID   map[string]*domain.Project
	order  []string
	nextID int
	addErr error
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{byID: map[string]*domain.Project{}}
}

func (f *fakeProjectStore) put(p domain.Project) string {
	f.nextID++
	id := fmt.Sprintf("proj-%d", f.nextID)
	p.ID = id
	f.byID[id] = &p
	f.order = append(f.order, id)
	return id
}

func (f *fakeProjectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) Create(_ context.Context, p *domain.Project) (string, error) {
	now := time.Now()
	cp := *p
	cp.CreatedAt = now
	cp.UpdatedAt = now
	return f.put(cp), nil
}

func (f *fakeProjectStore) ListByMember(_ context.Context, uid string) ([]domain.Project, error) {
	var out []domain.Project
	for _, id := range f.order {
		if f.byID[id].HasMember(uid) {
			out = append(out, *f.byID[id])
		}
	}
	return out, nil
}

func (f *fakeProjectStore) AddMember(_ context.Context, projectID, uid, role string) error {
	if f.addErr != nil {
		return f.addErr
	}
	p, ok := f.byID[projectID]
	if !ok {
		return domain.ErrNotFound
	}
	if !p.HasMember(uid) {
		p.Members = append(p.Members, uid)
	}
	if p.MemberRoles == nil {
		p.MemberRoles = map[string]string{}
	}
	p.MemberRoles[uid] = role
	p.UpdatedAt = time.Now()
	return nil
}

type fakeUserStore struct {
	byUID         map[string]*userdomain.User
	addProjectErr error
}

func newFakeUserStore(users ...*userdomain.User) *fakeUserStore {
	f := &fakeUserStore{byUID: map[string]*userdomain.User{}}
	for _, u := range users {
		f.byUID[u.UID] = u
	}
	return f
}

func (f *fakeUserStore) Get(_ context.Context, uid string) (*userdomain.User, error) {
	u, ok := f.byUID[uid]
	if !ok {
		return nil, userdomain.ErrNotFound
	}
	cp := *u
	cp.Projects = append([]string(nil), u.Projects...)
	return &cp, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *userdomain.User) error {
	cp := *u
	f.byUID[u.UID] = &cp
	return nil
}

func (f *fakeUserStore) AddProject(_ context.Context, uid, projectID string) error {
	if f.addProjectErr != nil {
		return f.addProjectErr
	}
	u, ok := f.byUID[uid]
	if !ok {
		return userdomain.ErrNotFound
	}
	if !u.HasProject(projectID) {
		u.Projects = append(u.Projects, projectID)
	}
	return nil
}

func (f *fakeUserStore) ReplaceProjects(_ context.Context, uid string, projects []string) error {
	u, ok := f.byUID[uid]
	if !ok {
		return userdomain.ErrNotFound
	}
	u.Projects = append([]string(nil), projects...)
	return nil
}

type fakeSessionStore struct {
	byProject map[string][]domain.Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{byProject: map[string][]domain.Session{}}
}

func (f *fakeSessionStore) ListByProject(_ context.Context, projectID string) ([]domain.Session, error) {
	return f.byProject[projectID], nil
}

type fakeInvitationReader struct {
	byProject map[string][]invdomain.Invitation
}

func newFakeInvitationReader() *fakeInvitationReader {
	return &fakeInvitationReader{byProject: map[string][]invdomain.Invitation{}}
}

func (f *fakeInvitationReader) ListPendingByProject(_ context.Context, projectID string) ([]invdomain.Invitation, error) {
	return f.byProject[projectID], nil
}

type fakeEvents struct {
	ch chan struct{}
}

func (f *fakeEvents) WatchProject(ctx context.Context, _ string) (<-chan struct{}, error) {
	return f.ch, nil
}

type fakeSink struct {
	mu        sync.Mutex
	sets      map[string][][]domain.TeamMember
	published map[string]int
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		sets:      map[string][][]domain.TeamMember{},
		published: map[string]int{},
	}
}

func (f *fakeSink) SetTeam(_ context.Context, projectID string, members []domain.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets[projectID] = append(f.sets[projectID], members)
	return nil
}

func (f *fakeSink) PublishChanged(_ context.Context, projectID string, _ []domain.TeamMember) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[projectID]++
	return nil
}

func (f *fakeSink) publishedCount(projectID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.published[projectID]
}
