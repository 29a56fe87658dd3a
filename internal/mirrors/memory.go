package mirrors

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/a-mirror/mirror-api/internal/models"
)

// MemoryRepository is an in-memory Repository for unit tests. Upsert keys
// on (redditPostId, botId) like the Mongo compound index.
type MemoryRepository struct {
	mu    sync.RWMutex
	byKey map[string]*models.MirroredVideo
	seq   int
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byKey: make(map[string]*models.MirroredVideo)}
}

func key(redditPostID, botID string) string {
	return redditPostID + "\x00" + botID
}

func (m *MemoryRepository) Upsert(ctx context.Context, redditPostID, url, botID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	if ex, ok := m.byKey[key(redditPostID, botID)]; ok {
		ex.URL = url
		ex.UpdatedAt = now
		return false, nil
	}
	m.seq++
	m.byKey[key(redditPostID, botID)] = &models.MirroredVideo{
		ID:           fmt.Sprintf("mirror_%d", m.seq),
		RedditPostID: redditPostID,
		URL:          url,
		BotID:        botID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return true, nil
}

func (m *MemoryRepository) FindByPostURLAndBot(ctx context.Context, redditPostID, url, botID string) (*models.MirroredVideo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.byKey[key(redditPostID, botID)]; ok && mv.URL == url {
		cp := *mv
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, mv := range m.byKey {
		if mv.ID == id {
			delete(m.byKey, k)
			return nil
		}
	}
	return mongo.ErrNoDocuments
}
