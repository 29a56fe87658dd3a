package mirrors

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/a-mirror/mirror-api/internal/bots"
	"github.com/a-mirror/mirror-api/internal/events"
	"github.com/a-mirror/mirror-api/internal/models"
)

const apiToken = "S3CR3T"

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	published []events.Event
	err       error
}

func (c *capturingPublisher) Publish(ctx context.Context, e events.Event) error {
	if c.err != nil {
		return c.err
	}
	c.published = append(c.published, e)
	return nil
}

func newTestService(t *testing.T) (*Service, *capturingPublisher, *models.RegisteredBot) {
	t.Helper()
	registry := bots.NewService(bots.NewMemoryRepository())
	bot, err := registry.Add(context.Background(), "a-mirror-bot", "dev@example.com", "b0tT0k3n")
	require.NoError(t, err)

	pub := &capturingPublisher{}
	svc := NewService(NewMemoryRepository(), registry, pub, apiToken)
	return svc, pub, bot
}

func TestAuthorize_MissingParameters(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Authorize(ctx, "", "b0tT0k3n")
	require.ErrorIs(t, err, ErrAuthMissing)

	_, err = svc.Authorize(ctx, apiToken, "")
	require.ErrorIs(t, err, ErrAuthMissing)
}

func TestAuthorize_InvalidSharedSecret(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Authorize(context.Background(), "wrong", "b0tT0k3n")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthorize_UnknownBotToken(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Authorize(context.Background(), apiToken, "not-a-bot")
	require.ErrorIs(t, err, ErrInvalidBotToken)
}

func TestAuthorize_ResolvesBot(t *testing.T) {
	svc, _, bot := newTestService(t)
	got, err := svc.Authorize(context.Background(), apiToken, "b0tT0k3n")
	require.NoError(t, err)
	require.Equal(t, bot.ID, got.ID)
	require.Equal(t, "a-mirror-bot", got.Username)
}

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	svc, pub, bot := newTestService(t)
	ctx := context.Background()

	created, err := svc.Upsert(ctx, bot, "abc123", "http://x/video.mp4")
	require.NoError(t, err)
	require.True(t, created)

	// second call with a different url mutates the existing record
	created, err = svc.Upsert(ctx, bot, "abc123", "http://y/video2.mp4")
	require.NoError(t, err)
	require.False(t, created)

	mv, err := svc.repo.FindByPostURLAndBot(ctx, "abc123", "http://y/video2.mp4", bot.ID)
	require.NoError(t, err)
	require.NotNil(t, mv)

	// the old url no longer matches anything
	old, err := svc.repo.FindByPostURLAndBot(ctx, "abc123", "http://x/video.mp4", bot.ID)
	require.NoError(t, err)
	require.Nil(t, old)

	require.Len(t, pub.published, 2)
	require.Equal(t, events.TypeMirrorCreated, pub.published[0].Type)
	require.Equal(t, events.TypeMirrorUpdated, pub.published[1].Type)
	require.Equal(t, "a-mirror-bot", pub.published[0].BotUsername)
}

func TestUpsert_ScopedPerBot(t *testing.T) {
	svc, _, bot := newTestService(t)
	ctx := context.Background()

	other, err := svc.registry.Add(ctx, "other-bot", "dev2", "other-token")
	require.NoError(t, err)

	created, err := svc.Upsert(ctx, bot, "abc123", "http://x/a.mp4")
	require.NoError(t, err)
	require.True(t, created)

	// same post id, different bot: a separate record is created
	created, err = svc.Upsert(ctx, other, "abc123", "http://x/b.mp4")
	require.NoError(t, err)
	require.True(t, created)
}

func TestUpsert_PublishFailureDoesNotFailRequest(t *testing.T) {
	svc, pub, bot := newTestService(t)
	pub.err = errors.New("stream down")

	created, err := svc.Upsert(context.Background(), bot, "p1", "http://x/v.mp4")
	require.NoError(t, err)
	require.True(t, created)
}

func TestDelete_ExactTripleMatch(t *testing.T) {
	svc, pub, bot := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, bot, "abc123", "http://x/video.mp4")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, bot, "abc123", "http://x/video.mp4"))

	mv, err := svc.repo.FindByPostURLAndBot(ctx, "abc123", "http://x/video.mp4", bot.ID)
	require.NoError(t, err)
	require.Nil(t, mv)

	last := pub.published[len(pub.published)-1]
	require.Equal(t, events.TypeMirrorDeleted, last.Type)
}

func TestDelete_MismatchedURLIsNotFound(t *testing.T) {
	svc, _, bot := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, bot, "abc123", "http://x/video.mp4")
	require.NoError(t, err)

	err = svc.Delete(ctx, bot, "abc123", "http://other/video.mp4")
	require.ErrorIs(t, err, ErrNotFound)

	// the record survives
	mv, err := svc.repo.FindByPostURLAndBot(ctx, "abc123", "http://x/video.mp4", bot.ID)
	require.NoError(t, err)
	require.NotNil(t, mv)
}

func TestDelete_MissingRecord(t *testing.T) {
	svc, _, bot := newTestService(t)
	err := svc.Delete(context.Background(), bot, "ghost", "http://x/v.mp4")
	require.ErrorIs(t, err, ErrNotFound)
}
