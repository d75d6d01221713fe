// Package mongostore implements the record store on MongoDB collections.
package mongostore

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"marineportal/internal/models"
	"marineportal/internal/seed"
	"marineportal/internal/store"
)

const (
	connectTimeout    = 10 * time.Second
	disconnectTimeout = 5 * time.Second
	timestampField    = "timestamp"
)

// Store keeps each record kind in its own MongoDB collection.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.RecordStore = (*Store)(nil)

// IsMongoURI reports whether uri selects the MongoDB backend.
func IsMongoURI(uri string) bool {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return true
	default:
		return false
	}
}

// Connect dials MongoDB and verifies the primary is reachable.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	if !IsMongoURI(uri) {
		return nil, fmt.Errorf("not a mongodb uri")
	}
	database = strings.TrimSpace(database)
	if database == "" {
		return nil, fmt.Errorf("database name is required")
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return &Store{client: client, db: client.Database(database)}, nil
}

// InsertRecord inserts one document into the record's collection.
func (s *Store) InsertRecord(ctx context.Context, rec models.Record) error {
	if rec == nil {
		return fmt.Errorf("record is required")
	}
	if err := store.CheckKinds(rec.Kind(), []models.Record{rec}); err != nil {
		return err
	}
	models.Normalize(rec)
	_, err := s.collection(rec.Kind()).InsertOne(ctx, rec)
	return err
}

// InsertRecords bulk-inserts documents. Mongo applies each document atomically, not the batch.
func (s *Store) InsertRecords(ctx context.Context, kind models.Kind, recs []models.Record) error {
	if err := store.CheckKinds(kind, recs); err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	docs := make([]any, 0, len(recs))
	for _, rec := range recs {
		models.Normalize(rec)
		docs = append(docs, rec)
	}
	_, err := s.collection(kind).InsertMany(ctx, docs)
	return err
}

// CountRecords counts every document in kind's collection.
func (s *Store) CountRecords(ctx context.Context, kind models.Kind) (int64, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return 0, err
	}
	return s.collection(kind).CountDocuments(ctx, bson.D{})
}

// ListRecords finds all documents without _id, newest first.
func (s *Store) ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	if _, err := models.ParseKind(string(kind)); err != nil {
		return nil, err
	}
	cursor, err := s.collection(kind).Find(ctx, bson.D{}, listOptions())
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.Record{}
	for cursor.Next(ctx) {
		rec, err := decodeDocument(kind, cursor.Current)
		if err != nil {
			return nil, fmt.Errorf("decode %s document: %w", kind, err)
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// decodeDocument decodes raw into a record of kind. Documents written by other
// tools may carry timestamp as a string; those are parsed leniently and an
// unparseable value leaves the zero time.
func decodeDocument(kind models.Kind, raw bson.Raw) (models.Record, error) {
	rec, err := models.NewRecord(kind)
	if err != nil {
		return nil, err
	}

	ts, lookupErr := raw.LookupErr(timestampField)
	if lookupErr != nil || ts.Type != bson.TypeString {
		if err := bson.Unmarshal(raw, rec); err != nil {
			return nil, err
		}
		models.Normalize(rec)
		return rec, nil
	}

	elems, err := raw.Elements()
	if err != nil {
		return nil, err
	}
	doc := make(bson.D, 0, len(elems))
	for _, elem := range elems {
		if elem.Key() == timestampField {
			continue
		}
		doc = append(doc, bson.E{Key: elem.Key(), Value: elem.Value()})
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	if err := bson.Unmarshal(data, rec); err != nil {
		return nil, err
	}
	if parsed, err := seed.ParseTimestamp(ts.StringValue()); err == nil {
		models.SetTimestamp(rec, parsed)
	}
	models.Normalize(rec)
	return rec, nil
}

// Ping checks the primary.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client pool.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) collection(kind models.Kind) *mongo.Collection {
	return s.db.Collection(kind.Collection())
}

// listOptions sorts by timestamp descending; ObjectIDs break ties newest-insert-first.
func listOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: timestampField, Value: -1}, {Key: "_id", Value: -1}}).
		SetProjection(bson.D{{Key: "_id", Value: 0}})
}
