package storage

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/iWorld-y/tech_radar/pkg/model"
)

// MongoStore 每个缓存键对应一个 MongoDB 集合
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore 连接 MongoDB 并校验可用性
func NewMongoStore(ctx context.Context, uri, database string, timeout time.Duration) (*MongoStore, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &MongoStore{client: client, db: client.Database(database)}, nil
}

var _ Store = (*MongoStore)(nil)

func (s *MongoStore) HasCollection(ctx context.Context, name string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	return lo.Contains(names, name), nil
}

func (s *MongoStore) Articles(ctx context.Context, name string) ([]model.Article, error) {
	var out []model.Article
	if err := s.findAll(ctx, name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) CountArticles(ctx context.Context, name string) (int64, error) {
	n, err := s.db.Collection(name).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", name, err)
	}
	return n, nil
}

func (s *MongoStore) InsertArticles(ctx context.Context, name string, articles []model.Article) error {
	return s.insert(ctx, name, lo.ToAnySlice(articles))
}

func (s *MongoStore) Mentions(ctx context.Context, name string) ([]model.Mention, error) {
	var out []model.Mention
	if err := s.findAll(ctx, name, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) InsertMentions(ctx context.Context, name string, mentions []model.Mention) error {
	return s.insert(ctx, name, lo.ToAnySlice(mentions))
}

func (s *MongoStore) CollectionNames(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) findAll(ctx context.Context, name string, out any) error {
	// InsertMany 生成的 ObjectID 递增，按 _id 排序即插入顺序
	cur, err := s.db.Collection(name).Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return fmt.Errorf("find %s: %w", name, err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

func (s *MongoStore) insert(ctx context.Context, name string, docs []any) error {
	if len(docs) == 0 {
		return nil
	}
	if _, err := s.db.Collection(name).InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert %s: %w", name, err)
	}
	return nil
}
