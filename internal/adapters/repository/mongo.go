package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/marathon/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
)

// DriverMongo is the driver name of MongoStore.
const DriverMongo = "mongo"

// MongoStore keeps each collection in a MongoDB collection of the same name.
type MongoStore struct {
	client   *mongo.Client
	db       *mongo.Database
	reporter sizeReporter
}

// OpenMongo connects to uri and verifies the connection with a ping.
func OpenMongo(ctx context.Context, uri, database string, opts ...Option) (*MongoStore, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	connectCtx, cancel := context.WithTimeout(ctx, o.connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, storeErr("connect mongo", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, storeErr("ping mongo", err)
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	s.reporter.start(ctx, s, o.metricsUpdateInterval)
	return s, nil
}

// Driver implements Store.
func (s *MongoStore) Driver() string { return DriverMongo }

func mongoFind[T any](ctx context.Context, c *mongo.Collection) ([]T, error) {
	defer observe(DriverMongo, "find", time.Now())

	cur, err := c.Find(ctx, bson.D{})
	if err != nil {
		return nil, storeErr("find "+c.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, storeErr("decode "+c.Name(), err)
	}
	return out, nil
}

// Runners implements Store.
func (s *MongoStore) Runners(ctx context.Context) ([]model.Runner, error) {
	return mongoFind[model.Runner](ctx, s.db.Collection(model.CollectionRunners))
}

// Sponsors implements Store.
func (s *MongoStore) Sponsors(ctx context.Context) ([]model.Sponsor, error) {
	return mongoFind[model.Sponsor](ctx, s.db.Collection(model.CollectionSponsors))
}

// Stalls implements Store.
func (s *MongoStore) Stalls(ctx context.Context) ([]model.Stall, error) {
	return mongoFind[model.Stall](ctx, s.db.Collection(model.CollectionRefreshments))
}

// Count implements Store.
func (s *MongoStore) Count(ctx context.Context, collection string) (int, error) {
	if err := knownCollection(collection); err != nil {
		return 0, err
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, storeErr("count "+collection, err)
	}
	return int(n), nil
}

// InsertRunner implements Store.
func (s *MongoStore) InsertRunner(ctx context.Context, r model.Runner) error {
	defer observe(DriverMongo, "insert", time.Now())

	if _, err := s.db.Collection(model.CollectionRunners).InsertOne(ctx, r); err != nil {
		return storeErr("insert runner", err)
	}
	return nil
}

func bibFilter(bib string) bson.D {
	return bson.D{{Key: "bib_number", Value: bib}}
}

// UpdateRunner implements Store.
func (s *MongoStore) UpdateRunner(ctx context.Context, bib string, p model.RunnerPatch) (bool, error) {
	defer observe(DriverMongo, "update", time.Now())

	c := s.db.Collection(model.CollectionRunners)
	fields := p.Fields()
	if len(fields) == 0 {
		// $set rejects an empty document; report whether the runner exists.
		err := c.FindOne(ctx, bibFilter(bib)).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		if err != nil {
			return false, storeErr("update runner", err)
		}
		return true, nil
	}

	res, err := c.UpdateOne(ctx, bibFilter(bib), bson.D{{Key: "$set", Value: bson.M(fields)}})
	if err != nil {
		return false, storeErr("update runner", err)
	}
	return res.MatchedCount > 0, nil
}

// DeleteRunner implements Store.
func (s *MongoStore) DeleteRunner(ctx context.Context, bib string) (bool, error) {
	defer observe(DriverMongo, "delete", time.Now())

	res, err := s.db.Collection(model.CollectionRunners).DeleteOne(ctx, bibFilter(bib))
	if err != nil {
		return false, storeErr("delete runner", err)
	}
	return res.DeletedCount > 0, nil
}

func toDocs[T any](items []T) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		out = append(out, it)
	}
	return out
}

// Seed implements Store.
func (s *MongoStore) Seed(ctx context.Context, runners []model.Runner, sponsors []model.Sponsor, stalls []model.Stall) error {
	defer observe(DriverMongo, "seed", time.Now())

	batches := []struct {
		collection string
		docs       []interface{}
	}{
		{model.CollectionRunners, toDocs(runners)},
		{model.CollectionSponsors, toDocs(sponsors)},
		{model.CollectionRefreshments, toDocs(stalls)},
	}
	for _, b := range batches {
		if len(b.docs) == 0 {
			continue
		}
		if _, err := s.db.Collection(b.collection).InsertMany(ctx, b.docs); err != nil {
			return storeErr("seed "+b.collection, err)
		}
	}
	return nil
}

// Close stops the metrics updater and disconnects the client.
func (s *MongoStore) Close() error {
	s.reporter.stop()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(ctx); err != nil {
		return storeErr("disconnect mongo", err)
	}
	return nil
}
