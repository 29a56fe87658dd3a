package models

import "time"

// MirroredVideo links a Reddit post to the re-hosted video URL produced by
// one bot. Uniqueness is the (redditPostId, botId) pair, not the post id
// alone: several bots may mirror the same post independently.
type MirroredVideo struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RedditPostID string    `bson:"redditPostId" json:"redditPostId"`
	URL          string    `bson:"url" json:"url"`
	BotID        string    `bson:"botId" json:"botId"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
