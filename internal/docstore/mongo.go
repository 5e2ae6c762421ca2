package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postline/internal/common"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on a MongoDB database. Collections map
// directly to Mongo collections and record fields to document fields;
// the document _id is surfaced as the Doc ID in hex form.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore connects to uri and binds to database dbName.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return &MongoStore{client: client, db: client.Database(dbName)}, nil
}

func (s *MongoStore) Add(ctx context.Context, collection string, data Record) (string, error) {
	doc := bson.M{}
	for k, v := range data {
		doc[k] = v
	}
	doc[FieldServerTime] = serverNow()

	res, err := s.db.Collection(collection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("%w: unexpected inserted id type %T", common.ErrUnavailable, res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *MongoStore) Get(ctx context.Context, collection, id string) (Record, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrNotFound
	}

	var doc bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}

	return recordFromBson(doc), nil
}

func (s *MongoStore) Query(ctx context.Context, collection string, q Query) ([]Doc, error) {
	filter := bson.M{}
	for k, v := range q.Filter {
		filter[k] = v
	}

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}})
	}

	cursor, err := s.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var result []Doc
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
		}
		oid, _ := doc["_id"].(primitive.ObjectID)
		result = append(result, Doc{ID: oid.Hex(), Data: recordFromBson(doc)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return result, nil
}

func (s *MongoStore) Update(ctx context.Context, collection, id string, fields Record) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}

	res, err := s.db.Collection(collection).UpdateByID(ctx, oid, bson.M{"$set": bson.M(fields)})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrNotFound
	}

	res, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) Count(ctx context.Context, collection string, filter map[string]string) (int64, error) {
	f := bson.M{}
	for k, v := range filter {
		f[k] = v
	}
	n, err := s.db.Collection(collection).CountDocuments(ctx, f)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
	return n, nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// recordFromBson converts a decoded document into a Record, dropping the
// _id and normalizing BSON datetimes to time.Time so callers see one
// timestamp type regardless of backend.
func recordFromBson(doc bson.M) Record {
	rec := make(Record, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		if dt, ok := v.(primitive.DateTime); ok {
			rec[k] = dt.Time().UTC()
			continue
		}
		if ts, ok := v.(time.Time); ok {
			rec[k] = ts.UTC()
			continue
		}
		rec[k] = v
	}
	return rec
}
