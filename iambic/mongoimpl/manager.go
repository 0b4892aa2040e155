package mongoimpl

import (
	"context"
	"errors"
	"fmt"
	"iambic/iambic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collName     = "posts"
	countersName = "counters"
)

type MongoManager struct {
	posts    *mongo.Collection
	counters *mongo.Collection
	client   *mongo.Client
}

func NewMongoManager(ctx context.Context, mongoURL string, dbName string) (*MongoManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURL))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}

	db := client.Database(dbName)
	return &MongoManager{
		posts:    db.Collection(collName),
		counters: db.Collection(countersName),
		client:   client,
	}, nil
}

func (m *MongoManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *MongoManager) IsReady(ctx context.Context) bool {
	if err := m.client.Ping(ctx, nil); err != nil {
		return false
	}
	return true
}

// nextID hands out sequential post ids from a counter document so ids stay
// small integers like the other storages.
func (m *MongoManager) nextID(ctx context.Context) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": collName},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

func (m *MongoManager) AddPost(ctx context.Context, body string) (iambic.Post, error) {
	id, err := m.nextID(ctx)
	if err != nil {
		return iambic.Post{}, fmt.Errorf("allocate post id: %w", iambic.ErrStorage)
	}
	// BSON dates have millisecond precision
	post := iambic.Post{ID: id, Body: body, CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	if _, err := m.posts.InsertOne(ctx, post); err != nil {
		return iambic.Post{}, fmt.Errorf("something went wrong - %w", iambic.ErrStorage)
	}
	return post, nil
}

func (m *MongoManager) GetPost(ctx context.Context, id int64) (iambic.Post, error) {
	var post iambic.Post
	err := m.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return iambic.Post{}, iambic.ErrNotFound
	}
	if err != nil {
		return iambic.Post{}, fmt.Errorf("something went wrong - %w", iambic.ErrStorage)
	}
	return post, nil
}

func (m *MongoManager) ListPosts(ctx context.Context) ([]iambic.Post, error) {
	cursor, err := m.posts.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("something went wrong - %w", iambic.ErrStorage)
	}
	defer cursor.Close(ctx)

	posts := []iambic.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", iambic.ErrStorage)
	}
	return posts, nil
}
