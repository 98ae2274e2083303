package dao

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"bioserver/logutils"
)

// OpenMongo connects to uri and verifies the primary is reachable.
func OpenMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	logutils.Log.WithFields(logutils.Fields{"database": database}).Info("Mongo init success!")
	return client, client.Database(database), nil
}

// MongoCollection stores T as documents of one Mongo collection. Ids are kept
// as hex strings under _id.
type MongoCollection[T any] struct {
	coll *mongo.Collection
}

func NewMongoCollection[T any](db *mongo.Database, name string) *MongoCollection[T] {
	return &MongoCollection[T]{coll: db.Collection(name)}
}

func (m *MongoCollection[T]) Name() string {
	return m.coll.Name()
}

func (m *MongoCollection[T]) PagedFind(ctx context.Context, q PageQuery) (*Page[T], error) {
	q = q.Normalize()
	opts := options.Find().
		SetSort(mongoSort(ParseSort(q.Sort))).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	if proj := mongoProjection(ParseFields(q.Fields)); proj != nil {
		opts.SetProjection(proj)
	}

	cur, err := m.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", m.Name(), err)
	}
	var docs []T
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", m.Name(), err)
	}
	total, err := m.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", m.Name(), err)
	}
	return NewPage(docs, q, total), nil
}

func (m *MongoCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, m.wrap("find", err)
	}
	return &doc, nil
}

func (m *MongoCollection[T]) Insert(ctx context.Context, doc *T) error {
	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert %s: %w", m.Name(), err)
	}
	return nil
}

func (m *MongoCollection[T]) FindByIDAndUpdate(ctx context.Context, id string, set map[string]any) (*T, error) {
	var doc T
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M(set)}, opts).Decode(&doc)
	if err != nil {
		return nil, m.wrap("update", err)
	}
	return &doc, nil
}

func (m *MongoCollection[T]) FindByIDAndDelete(ctx context.Context, id string) (*T, error) {
	var doc T
	if err := m.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, m.wrap("delete", err)
	}
	return &doc, nil
}

// EnsureIndexes creates an ascending single-field index per key.
func (m *MongoCollection[T]) EnsureIndexes(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	models := make([]mongo.IndexModel, 0, len(keys))
	for _, k := range keys {
		models = append(models, mongo.IndexModel{Keys: bson.D{{Key: k, Value: 1}}})
	}
	if _, err := m.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", m.Name(), err)
	}
	return nil
}

func (m *MongoCollection[T]) wrap(op string, err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("%s %s: %w", op, m.Name(), err)
}

func mongoSort(fields []SortField) bson.D {
	sort := make(bson.D, 0, len(fields))
	for _, f := range fields {
		dir := 1
		if f.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: f.Name, Value: dir})
	}
	return sort
}

func mongoProjection(fields []string) bson.D {
	if len(fields) == 0 {
		return nil
	}
	proj := make(bson.D, 0, len(fields))
	for _, f := range fields {
		proj = append(proj, bson.E{Key: f, Value: 1})
	}
	return proj
}
