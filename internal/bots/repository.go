package bots

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/a-mirror/mirror-api/internal/models"
)

// ErrDuplicateKey is returned by Insert when a unique index rejects the row.
var ErrDuplicateKey = errors.New("duplicate key")

// Repository defines persistence operations for registered bots.
// Lookup methods return (nil, nil) when no bot matches.
type Repository interface {
	GetByUsername(ctx context.Context, username string) (*models.RegisteredBot, error)
	GetByToken(ctx context.Context, token string) (*models.RegisteredBot, error)
	List(ctx context.Context) ([]models.RegisteredBot, error)
	Insert(ctx context.Context, b *models.RegisteredBot) error
	Update(ctx context.Context, b *models.RegisteredBot) error
	Delete(ctx context.Context, username string) error
}

// MongoRepository implements Repository using MongoDB
type MongoRepository struct {
	col *mongo.Collection
}

// NewMongoRepository creates a new repository for the given collection
func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (*models.RegisteredBot, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoRepository) GetByToken(ctx context.Context, token string) (*models.RegisteredBot, error) {
	return r.findOne(ctx, bson.M{"token": token})
}

func (r *MongoRepository) findOne(ctx context.Context, filter bson.M) (*models.RegisteredBot, error) {
	var doc botDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) List(ctx context.Context) ([]models.RegisteredBot, error) {
	opts := options.Find().SetSort(bson.D{{Key: "username", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.RegisteredBot
	for cur.Next(ctx) {
		var doc botDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, *doc.toModel())
	}
	return out, cur.Err()
}

func (r *MongoRepository) Insert(ctx context.Context, b *models.RegisteredBot) error {
	now := time.Now().UTC()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	res, err := r.col.InsertOne(ctx, bson.M{
		"username":  b.Username,
		"developer": b.Developer,
		"token":     b.Token,
		"createdAt": b.CreatedAt,
		"updatedAt": b.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		b.ID = oid.Hex()
	}
	return nil
}

func (r *MongoRepository) Update(ctx context.Context, b *models.RegisteredBot) error {
	b.UpdatedAt = time.Now().UTC()
	upd := bson.M{"$set": bson.M{
		"developer": b.Developer,
		"token":     b.Token,
		"updatedAt": b.UpdatedAt,
	}}
	res, err := r.col.UpdateOne(ctx, bson.M{"username": b.Username}, upd)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, username string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"username": username})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// botDoc is the Mongo document shape; _id is an ObjectID that the model
// exposes as its hex form.
type botDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Developer string             `bson:"developer"`
	Token     string             `bson:"token"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *botDoc) toModel() *models.RegisteredBot {
	return &models.RegisteredBot{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		Developer: d.Developer,
		Token:     d.Token,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
