// Package redis broadcasts cache-invalidation events over Redis pub/sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/pawsit/pawsit/internal/domain"
)

type PubSub struct {
	client *redis.Client
}

func New(ctx context.Context, addr, password string, db int) (*PubSub, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis.New: ping: %w", err)
	}

	return &PubSub{client: client}, nil
}

func (ps *PubSub) Close() error {
	if err := ps.client.Close(); err != nil {
		return fmt.Errorf("redis.PubSub.Close: %w", err)
	}
	return nil
}

func (ps *PubSub) Publish(ctx context.Context, channel string, payload []byte) error {
	if err := ps.client.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("redis.PubSub.Publish: %w", err)
	}
	return nil
}

func (ps *PubSub) Subscribe(ctx context.Context, channel string) (<-chan []byte, func(), error) {
	sub := ps.client.Subscribe(ctx, channel)

	// Wait for subscription confirmation.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, nil, fmt.Errorf("redis.PubSub.Subscribe: receive confirmation: %w", err)
	}

	out := make(chan []byte, 64)
	redisCh := sub.Channel()

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-redisCh:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	cleanup := func() {
		_ = sub.Close()
	}

	return out, cleanup, nil
}

// PermissionsChanged tells other instances to drop any state derived from the
// user's old permission map. The payload is the user id.
func (ps *PubSub) PermissionsChanged(ctx context.Context, userID int64) error {
	id := strconv.FormatInt(userID, 10)
	return ps.Publish(ctx, PermissionChannel(userID), []byte(id))
}

// RevisionRecorded publishes a newly recorded revision on its resource's
// audit feed for live displays.
func (ps *PubSub) RevisionRecorded(ctx context.Context, rev *domain.Revision) error {
	payload, err := json.Marshal(revisionEvent{
		ID:       rev.ID,
		Resource: rev.Resource,
		RecordID: rev.RecordID,
		Action:   rev.Action,
	})
	if err != nil {
		return fmt.Errorf("redis.PubSub.RevisionRecorded: marshal: %w", err)
	}
	return ps.Publish(ctx, RevisionChannel(rev.Resource), payload)
}

// revisionEvent is the compact wire form of an audit feed entry. Subscribers
// fetch the full revision through the API when they need snapshots.
type revisionEvent struct {
	ID       int64                 `json:"id"`
	Resource domain.Resource       `json:"resource"`
	RecordID string                `json:"record_id"`
	Action   domain.RevisionAction `json:"action"`
}

// PermissionChannel returns the Redis channel name for one user's
// permission-change events.
func PermissionChannel(userID int64) string {
	return "perms:" + strconv.FormatInt(userID, 10)
}

// RevisionChannel returns the Redis channel name for a resource's audit feed.
func RevisionChannel(res domain.Resource) string {
	return "revisions:" + string(res)
}
