package bots

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/a-mirror/mirror-api/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests. It applies
// the same uniqueness rules as the Mongo indexes (username, token).
type MemoryRepository struct {
	mu    sync.RWMutex
	byUsr map[string]*models.RegisteredBot
	seq   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUsr: make(map[string]*models.RegisteredBot)}
}

func (m *MemoryRepository) GetByUsername(ctx context.Context, username string) (*models.RegisteredBot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.byUsr[username]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) GetByToken(ctx context.Context, token string) (*models.RegisteredBot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.byUsr {
		if b.Token == token {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(ctx context.Context) ([]models.RegisteredBot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.RegisteredBot, 0, len(m.byUsr))
	for _, b := range m.byUsr {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (m *MemoryRepository) Insert(ctx context.Context, b *models.RegisteredBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsr[b.Username]; ok {
		return ErrDuplicateKey
	}
	for _, ex := range m.byUsr {
		if ex.Token == b.Token {
			return ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	m.seq++
	b.ID = fmt.Sprintf("bot_%d", m.seq)
	cp := *b
	m.byUsr[b.Username] = &cp
	return nil
}

func (m *MemoryRepository) Update(ctx context.Context, b *models.RegisteredBot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ex, ok := m.byUsr[b.Username]
	if !ok {
		return mongo.ErrNoDocuments
	}
	for usr, other := range m.byUsr {
		if usr != b.Username && other.Token == b.Token {
			return ErrDuplicateKey
		}
	}
	ex.Developer = b.Developer
	ex.Token = b.Token
	ex.UpdatedAt = time.Now().UTC()
	b.UpdatedAt = ex.UpdatedAt
	return nil
}

func (m *MemoryRepository) Delete(ctx context.Context, username string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUsr[username]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.byUsr, username)
	return nil
}
