package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/a-mirror/mirror-api/pkg/metrics"
)

// Event types published after successful mirror mutations.
const (
	TypeMirrorCreated = "mirror.created"
	TypeMirrorUpdated = "mirror.updated"
	TypeMirrorDeleted = "mirror.deleted"
)

// Event describes a mirror-record change for the downstream process that
// reconciles the associated Reddit comment.
type Event struct {
	Type         string    `json:"type"`
	RedditPostID string    `json:"redditPostId"`
	URL          string    `json:"url"`
	BotUsername  string    `json:"botUsername"`
	At           time.Time `json:"at"`
}

// Publisher is the publication point for mirror change events. Consumers
// poll the stream; publishing never blocks a request on consumer health.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// RedisPublisher appends events to a capped Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
}

// NewRedisPublisher creates a publisher for the given stream name.
// Stream defaults to "mirror:events" when empty.
func NewRedisPublisher(client *redis.Client, stream string) *RedisPublisher {
	if stream == "" {
		stream = "mirror:events"
	}
	return &RedisPublisher{client: client, stream: stream, maxLen: 10000}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"type":         e.Type,
			"redditPostId": e.RedditPostID,
			"url":          e.URL,
			"botUsername":  e.BotUsername,
			"at":           e.At.Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		return err
	}
	metrics.EventsPublished.WithLabelValues(e.Type).Inc()
	return nil
}

// NopPublisher discards events. Used when Redis is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, e Event) error { return nil }
