package events

import (
	"context"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_Publish(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	pub := NewRedisPublisher(client, "test:mirror:events")

	ctx := context.Background()
	e := Event{
		Type:         TypeMirrorCreated,
		RedditPostID: "abc123",
		URL:          "http://x/video.mp4",
		BotUsername:  "a-mirror-bot",
		At:           time.Now().UTC(),
	}
	require.NoError(t, pub.Publish(ctx, e))

	msgs, err := client.XRange(ctx, "test:mirror:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, TypeMirrorCreated, msgs[0].Values["type"])
	require.Equal(t, "abc123", msgs[0].Values["redditPostId"])
	require.Equal(t, "http://x/video.mp4", msgs[0].Values["url"])
	require.Equal(t, "a-mirror-bot", msgs[0].Values["botUsername"])
}

func TestRedisPublisher_SetsTimestamp(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	pub := NewRedisPublisher(client, "")

	require.NoError(t, pub.Publish(context.Background(), Event{Type: TypeMirrorDeleted, RedditPostID: "p1"}))

	msgs, err := client.XRange(context.Background(), "mirror:events", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	at, ok := msgs[0].Values["at"].(string)
	require.True(t, ok)
	_, err = time.Parse(time.RFC3339, at)
	require.NoError(t, err)
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: TypeMirrorUpdated}))
}
