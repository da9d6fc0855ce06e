package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tracklight-app/tracklight-backend/internal/projects/domain"
)

const (
	teamKeyPrefix    = "team:list:"   // Cached team list: team:list:{project_id}
	teamEventsPrefix = "team:events:" // Pub/Sub channel for team changes: team:events:{project_id}
	teamTTL          = 5 * time.Minute
)

// TeamCache holds derived team lists in Redis and fans out change events.
// Cached entries are disposable copies; the Firestore documents stay the
// source of truth.
type TeamCache struct {
	client *redis.Client
}

func NewTeamCache(client *redis.Client) *TeamCache {
	return &TeamCache{client: client}
}

func (c *TeamCache) teamKey(projectID string) string {
	return fmt.Sprintf("%s%s", teamKeyPrefix, projectID)
}

func (c *TeamCache) eventsChannel(projectID string) string {
	return fmt.Sprintf("%s%s", teamEventsPrefix, projectID)
}

// GetTeam returns the cached team list and whether the key was present.
func (c *TeamCache) GetTeam(ctx context.Context, projectID string) ([]domain.TeamMember, bool, error) {
	data, err := c.client.Get(ctx, c.teamKey(projectID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read team cache: %w", err)
	}

	var members []domain.TeamMember
	if err := json.Unmarshal([]byte(data), &members); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached team: %w", err)
	}
	return members, true, nil
}

// SetTeam stores the team list with a TTL.
func (c *TeamCache) SetTeam(ctx context.Context, projectID string, members []domain.TeamMember) error {
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to marshal team list: %w", err)
	}
	if err := c.client.Set(ctx, c.teamKey(projectID), data, teamTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache team list: %w", err)
	}
	return nil
}

// PublishChanged notifies subscribers that the project's team list changed.
func (c *TeamCache) PublishChanged(ctx context.Context, projectID string, members []domain.TeamMember) error {
	data, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to marshal team event: %w", err)
	}
	if err := c.client.Publish(ctx, c.eventsChannel(projectID), data).Err(); err != nil {
		return fmt.Errorf("failed to publish team event: %w", err)
	}
	return nil
}

// Invalidate drops the cached list for a project.
func (c *TeamCache) Invalidate(ctx context.Context, projectID string) error {
	if err := c.client.Del(ctx, c.teamKey(projectID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate team cache: %w", err)
	}
	return nil
}
