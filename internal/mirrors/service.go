package mirrors

import (
	"context"
	"errors"
	"fmt"

	"github.com/a-mirror/mirror-api/internal/bots"
	"github.com/a-mirror/mirror-api/internal/events"
	"github.com/a-mirror/mirror-api/internal/models"
	"github.com/a-mirror/mirror-api/pkg/logger"
	"github.com/a-mirror/mirror-api/pkg/metrics"
)

var (
	// ErrAuthMissing: request carried no shared token or no bot token.
	ErrAuthMissing = errors.New("auth parameters not provided")
	// ErrInvalidToken: shared secret did not match the configured value.
	ErrInvalidToken = errors.New("invalid access token")
	// ErrInvalidBotToken: no registered bot owns the presented token.
	ErrInvalidBotToken = errors.New("invalid bot access token")
	// ErrNotFound: no mirror matched the (redditPostId, url, bot) triple.
	ErrNotFound = errors.New("mirror not found")
	// ErrLookup wraps persistence failures while reading mirror data.
	ErrLookup = errors.New("mirror lookup failed")
	// ErrRemove wraps persistence failures while removing a mirror.
	ErrRemove = errors.New("mirror removal failed")
)

// Service implements the bot-facing mirror operations: two-factor
// authorization, atomic upsert, delete, and downstream event publication.
type Service struct {
	repo     Repository
	registry *bots.Service
	pub      events.Publisher
	apiToken string
}

func NewService(repo Repository, registry *bots.Service, pub events.Publisher, apiToken string) *Service {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return &Service{repo: repo, registry: registry, pub: pub, apiToken: apiToken}
}

// Authorize runs the two-factor check: the shared API secret must match the
// configured value and the bot token must resolve to exactly one registered
// bot. Runs before any mirror persistence access. The resolved bot scopes
// all subsequent lookups.
func (s *Service) Authorize(ctx context.Context, token, botToken string) (*models.RegisteredBot, error) {
	if token == "" || botToken == "" {
		return nil, ErrAuthMissing
	}
	if token != s.apiToken {
		return nil, ErrInvalidToken
	}
	bot, err := s.registry.GetByToken(ctx, botToken)
	if err != nil {
		return nil, fmt.Errorf("bot token lookup: %w", err)
	}
	if bot == nil {
		return nil, ErrInvalidBotToken
	}
	return bot, nil
}

// Upsert creates or updates the mirror record for (redditPostId, bot) in a
// single atomic persistence call, awaited before responding. Returns true
// when a new record was created.
func (s *Service) Upsert(ctx context.Context, bot *models.RegisteredBot, redditPostID, url string) (bool, error) {
	created, err := s.repo.Upsert(ctx, redditPostID, url, bot.ID)
	if err != nil {
		return false, err
	}

	evType := events.TypeMirrorUpdated
	outcome := "updated"
	if created {
		evType = events.TypeMirrorCreated
		outcome = "created"
	}
	metrics.MirrorUpserts.WithLabelValues(outcome).Inc()
	s.publish(ctx, evType, bot, redditPostID, url)
	return created, nil
}

// Delete removes the mirror matching the exact (redditPostId, url, bot)
// triple. A record with the same post id but a different url is left alone.
func (s *Service) Delete(ctx context.Context, bot *models.RegisteredBot, redditPostID, url string) error {
	mv, err := s.repo.FindByPostURLAndBot(ctx, redditPostID, url, bot.ID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLookup, err)
	}
	if mv == nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, mv.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrRemove, err)
	}
	metrics.MirrorDeletes.Inc()
	s.publish(ctx, events.TypeMirrorDeleted, bot, redditPostID, url)
	return nil
}

// publish notifies the downstream comment-reconciliation consumer. A
// publish failure never fails the request; the record change already
// happened.
func (s *Service) publish(ctx context.Context, evType string, bot *models.RegisteredBot, redditPostID, url string) {
	e := events.Event{
		Type:         evType,
		RedditPostID: redditPostID,
		URL:          url,
		BotUsername:  bot.Username,
	}
	if err := s.pub.Publish(ctx, e); err != nil {
		logger.Warnf("failed to publish %s event for post %s: %v", evType, redditPostID, err)
	}
}
