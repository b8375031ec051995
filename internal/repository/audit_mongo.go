package repository

import (
	"context"
	"errors"
	"time"

	"github.com/umalmyha/rentals/internal/audit"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	auditCollection  = "audit_events"
	duplicateKeyCode = 11000
)

type mongoAuditStore struct {
	collection *mongo.Collection
}

// NewMongoAuditStore builds audit.Store on top of audit_events collection of db
func NewMongoAuditStore(db *mongo.Database) audit.Store {
	return &mongoAuditStore{collection: db.Collection(auditCollection)}
}

// EnsureAuditIndexes creates indexes used by event queries and reports
func EnsureAuditIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(auditCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "eventType", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "timestamp", Value: -1}}},
	})
	return err
}

// Persist inserts batch unordered, events which were stored by previous attempt are skipped
func (s *mongoAuditStore) Persist(ctx context.Context, events []audit.Event) error {
	if len(events) == 0 {
		return nil
	}

	docs := make([]any, len(events))
	for i := range events {
		docs[i] = events[i]
	}

	_, err := s.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicates(err) {
		return err
	}
	return nil
}

func (s *mongoAuditStore) Query(ctx context.Context, f audit.Filter) ([]audit.Event, error) {
	filter := bson.M{}
	if r := timeRange(f.From, f.To); len(r) > 0 {
		filter["timestamp"] = r
	}
	if f.UserID != "" {
		filter["userId"] = f.UserID
	}
	if f.EventType != "" {
		filter["eventType"] = f.EventType
	}
	if f.Severity != "" {
		filter["severity"] = f.Severity
	}
	if f.ResourceID != "" {
		filter["resourceId"] = f.ResourceID
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(f.Limit))
	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	events := make([]audit.Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *mongoAuditStore) CountByType(ctx context.Context, from, to time.Time) (map[audit.EventType]int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": timeRange(&from, &to)}}},
		{{Key: "$group", Value: bson.M{"_id": "$eventType", "count": bson.M{"$sum": 1}}}},
	}

	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var groups []struct {
		EventType audit.EventType `bson:"_id"`
		Count     int             `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}

	summary := make(map[audit.EventType]int, len(groups))
	for _, g := range groups {
		summary[g.EventType] = g.Count
	}
	return summary, nil
}

func timeRange(from, to *time.Time) bson.M {
	r := bson.M{}
	if from != nil {
		r["$gte"] = *from
	}
	if to != nil {
		r["$lte"] = *to
	}
	return r
}

func onlyDuplicates(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}

	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}
