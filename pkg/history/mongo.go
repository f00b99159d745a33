package history

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore keeps records in a MongoDB collection, which lets a team
// share one render history.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database.collection.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	coll := client.Database(database).Collection(collection)
	_, err = coll.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "started", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return &MongoStore{client: client, coll: coll}, nil
}

// Add inserts r.
func (s *MongoStore) Add(ctx context.Context, r Record) error {
	_, err := s.coll.InsertOne(ctx, r)
	return err
}

// List returns the newest records first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "started", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	var out []Record
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
