package mirrors

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/a-mirror/mirror-api/internal/models"
)

// Repository defines persistence operations for mirrored-video records.
// Lookups return (nil, nil) when no record matches.
type Repository interface {
	// Upsert atomically creates or replaces the url for the
	// (redditPostId, botId) pair. Returns true when a new record was
	// created, false when an existing one was updated.
	Upsert(ctx context.Context, redditPostID, url, botID string) (bool, error)
	FindByPostURLAndBot(ctx context.Context, redditPostID, url, botID string) (*models.MirroredVideo, error)
	Delete(ctx context.Context, id string) error
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// Upsert is a single UpdateOne with upsert:true, so two concurrent calls
// for the same pair cannot both insert; the unique (redditPostId, botId)
// index backs this up.
func (r *MongoRepository) Upsert(ctx context.Context, redditPostID, url, botID string) (bool, error) {
	now := time.Now().UTC()
	filter := bson.M{"redditPostId": redditPostID, "botId": botID}
	upd := bson.M{
		"$set":         bson.M{"url": url, "updatedAt": now},
		"$setOnInsert": bson.M{"redditPostId": redditPostID, "botId": botID, "createdAt": now},
	}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, upd, opts)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *MongoRepository) FindByPostURLAndBot(ctx context.Context, redditPostID, url, botID string) (*models.MirroredVideo, error) {
	var doc mirrorDoc
	filter := bson.M{"redditPostId": redditPostID, "url": url, "botId": botID}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

type mirrorDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	RedditPostID string             `bson:"redditPostId"`
	URL          string             `bson:"url"`
	BotID        string             `bson:"botId"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

func (d *mirrorDoc) toModel() *models.MirroredVideo {
	return &models.MirroredVideo{
		ID:           d.ID.Hex(),
		RedditPostID: d.RedditPostID,
		URL:          d.URL,
		BotID:        d.BotID,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
