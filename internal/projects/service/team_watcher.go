package service

import (
	"context"
	"errors"
	"log"
	"sync"
)

// TeamWatcher keeps derived team lists fresh: whenever a project's invitation
// set changes, it recomputes the list, caches it and publishes a change
// event. Subscription-driven, so staleness is bounded by the recomputation
// latency rather than a polling interval.
type TeamWatcher struct {
	team   *TeamService
	events InvitationEvents
	sink   TeamSink
}

func NewTeamWatcher(team *TeamService, events InvitationEvents, sink TeamSink) *TeamWatcher {
	return &TeamWatcher{team: team, events: events, sink: sink}
}

// WatchProject blocks, refreshing the team list on every invitation change,
// until ctx is done or the subscription ends.
func (w *TeamWatcher) WatchProject(ctx context.Context, projectID string) error {
	ch, err := w.events.WatchProject(ctx, projectID)
	if err != nil {
		return err
	}

	for range ch {
		if err := w.Refresh(ctx, projectID); err != nil {
			// Derived state only; the next change or cache miss recovers it.
			log.Printf("TEAM: refresh for project %s failed: %v", projectID, err)
		}
	}
	return ctx.Err()
}

// Refresh recomputes and republishes the team list once.
func (w *TeamWatcher) Refresh(ctx context.Context, projectID string) error {
	members, err := w.team.ListTeam(ctx, projectID)
	if err != nil {
		return err
	}
	if err := w.sink.SetTeam(ctx, projectID, members); err != nil {
		return err
	}
	return w.sink.PublishChanged(ctx, projectID, members)
}

// WatcherManager runs at most one watcher goroutine per project.
type WatcherManager struct {
	ctx     context.Context
	watcher *TeamWatcher

	mu     sync.Mutex
	active map[string]struct{}
}

func NewWatcherManager(ctx context.Context, watcher *TeamWatcher) *WatcherManager {
	return &WatcherManager{
		ctx:     ctx,
		watcher: watcher,
		active:  make(map[string]struct{}),
	}
}

// Ensure starts a watcher for the project if none is running.
func (m *WatcherManager) Ensure(projectID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[projectID]; ok {
		return
	}
	m.active[projectID] = struct{}{}

	go func() {
		defer func() {
			m.mu.Lock()
			delete(m.active, projectID)
			m.mu.Unlock()
		}()
		err := m.watcher.WatchProject(m.ctx, projectID)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("TEAM: watcher for project %s stopped: %v", projectID, err)
		}
	}()
}
