package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/types/users"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	videosCollection = "videos"
	usersCollection  = "users"
)

// Mongo keeps video and user documents in MongoDB. Identities are ObjectIDs
// rendered as hex.
type Mongo struct {
	client *mongo.Client
	videos *mongo.Collection
	users  *mongo.Collection
}

type videoDocument struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	videos.VideoAsset `bson:",inline"`
}

type userDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	users.User `bson:",inline"`
	Password   string `bson:"password"`
}

func NewMongo(ctx context.Context, cfg config.Mongo) (*Mongo, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	slog.Info("Connected to MongoDB", slog.String("database", cfg.Database))

	db := client.Database(cfg.Database)
	m := &Mongo{
		client: client,
		videos: db.Collection(videosCollection),
		users:  db.Collection(usersCollection),
	}

	if err := m.createIndexes(ctx); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}

	return m, nil
}

func (m *Mongo) createIndexes(ctx context.Context) error {
	_, err := m.videos.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "uploaded_by", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = m.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) CreateVideo(ctx context.Context, video videos.VideoAsset) (videos.VideoAsset, error) {
	video.CreatedAt = time.Now().UTC()

	res, err := m.videos.InsertOne(ctx, videoDocument{VideoAsset: video})
	if err != nil {
		return videos.VideoAsset{}, err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return videos.VideoAsset{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	video.ID = oid.Hex()
	return video, nil
}

func (m *Mongo) GetVideoByID(ctx context.Context, id string) (videos.VideoAsset, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return videos.VideoAsset{}, storage.ErrNotFound
	}

	var doc videoDocument
	err = m.videos.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return videos.VideoAsset{}, storage.ErrNotFound
	}
	if err != nil {
		return videos.VideoAsset{}, err
	}

	return doc.asset(), nil
}

func (m *Mongo) ListVideos(ctx context.Context) ([]videos.VideoAsset, error) {
	return m.findVideos(ctx, bson.M{})
}

func (m *Mongo) ListVideosByCategory(ctx context.Context, category string) ([]videos.VideoAsset, error) {
	return m.findVideos(ctx, bson.M{"category": category})
}

func (m *Mongo) ListVideosByUploader(ctx context.Context, userID string) ([]videos.VideoAsset, error) {
	if userID == "" {
		return []videos.VideoAsset{}, nil
	}
	return m.findVideos(ctx, bson.M{"uploaded_by": userID})
}

func (m *Mongo) findVideos(ctx context.Context, filter bson.M) ([]videos.VideoAsset, error) {
	// ObjectIDs grow with insertion time
	cur, err := m.videos.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}

	var docs []videoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	result := make([]videos.VideoAsset, 0, len(docs))
	for _, doc := range docs {
		result = append(result, doc.asset())
	}
	return result, nil
}

func (m *Mongo) DeleteVideo(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := m.videos.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (m *Mongo) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	doc := userDocument{
		User: users.User{
			Username: username,
			Email:    email,
			JoinedAt: time.Now().UTC(),
		},
		Password: passwordHash,
	}

	res, err := m.users.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return "", storage.ErrDuplicate
	}
	if err != nil {
		return "", err
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *Mongo) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var doc userDocument
	err := m.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", "", storage.ErrNotFound
	}
	if err != nil {
		return "", "", err
	}
	return doc.ID.Hex(), doc.Password, nil
}

func (m *Mongo) GetUserByID(ctx context.Context, id string) (users.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return users.User{}, storage.ErrNotFound
	}

	var doc userDocument
	err = m.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return users.User{}, storage.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}

	user := doc.User
	user.ID = doc.ID.Hex()
	return user, nil
}

func (d videoDocument) asset() videos.VideoAsset {
	asset := d.VideoAsset
	asset.ID = d.ID.Hex()
	return asset
}
