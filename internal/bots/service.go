package bots

import (
	"context"
	"errors"
	"strings"

	"github.com/a-mirror/mirror-api/internal/models"
)

var (
	// ErrNotFound is returned when no bot matches the requested username.
	ErrNotFound = errors.New("bot not found")
	// ErrAlreadyRegistered is returned by Add when the username is taken.
	ErrAlreadyRegistered = errors.New("bot is already registered")
)

// Service encapsulates bot-registry business logic
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service {
	return &Service{repo: r}
}

// Get looks up one bot by exact username match.
func (s *Service) Get(ctx context.Context, username string) (*models.RegisteredBot, error) {
	b, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

// GetByToken resolves a bot from its secret token. Used as the second
// authorization factor by the mirror endpoints.
func (s *Service) GetByToken(ctx context.Context, token string) (*models.RegisteredBot, error) {
	return s.repo.GetByToken(ctx, token)
}

// List returns every registered bot ordered by username ascending.
func (s *Service) List(ctx context.Context) ([]models.RegisteredBot, error) {
	return s.repo.List(ctx)
}

// Add registers a new bot. The username must not be taken; a concurrent
// duplicate insert is caught by the unique index and reported the same way
// as the up-front check.
func (s *Service) Add(ctx context.Context, username, developer, token string) (*models.RegisteredBot, error) {
	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyRegistered
	}

	b := &models.RegisteredBot{
		Username:  username,
		Developer: developer,
		Token:     token,
	}
	if err := s.repo.Insert(ctx, b); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return nil, ErrAlreadyRegistered
		}
		return nil, err
	}
	return b, nil
}

// UpdateResult reports which fields an Update call changed.
type UpdateResult struct {
	Message string
	Data    map[string]string
}

// Update overwrites developer and/or token for an existing bot. Only
// non-empty fields are applied; the result message lists the applied
// changes in check order (developer before token) and is empty when
// neither field was supplied.
func (s *Service) Update(ctx context.Context, username, developer, token string) (*UpdateResult, error) {
	b, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}

	var messages []string
	data := map[string]string{}

	if developer != "" {
		b.Developer = developer
		messages = append(messages, "Updated developer")
		data["newDeveloper"] = developer
	}
	if token != "" {
		b.Token = token
		messages = append(messages, "Updated token")
		data["newToken"] = token
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return &UpdateResult{Message: strings.Join(messages, ", "), Data: data}, nil
}

// Delete removes a bot by username.
func (s *Service) Delete(ctx context.Context, username string) error {
	b, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, username)
}
