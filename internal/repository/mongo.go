package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/dining-hall/internal/model"
)

// Collection names.  "complains" keeps the name existing deployments use.
const (
	UsersCollection      = "users"
	MealsCollection      = "meals"
	ReviewsCollection    = "reviews"
	RequestsCollection   = "requests"
	PaymentsCollection   = "payments"
	ComplaintsCollection = "complains"
)

// objectID parses a hex identifier taken from a request path.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// findAll runs a query and decodes every document.  The result is never nil
// so an empty listing encodes as [] rather than null.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", coll.Name(), err)
	}
	return out, nil
}

// findOne returns nil, nil when no document matches.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var v T
	err := coll.FindOne(ctx, filter).Decode(&v)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find one %s: %w", coll.Name(), err)
	}
	return &v, nil
}

func insertResult(r *mongo.InsertOneResult) model.InsertResult {
	return model.InsertResult{Acknowledged: true, InsertedID: r.InsertedID}
}

func updateResult(r *mongo.UpdateResult) model.UpdateResult {
	return model.UpdateResult{
		Acknowledged:  true,
		MatchedCount:  r.MatchedCount,
		ModifiedCount: r.ModifiedCount,
		UpsertedCount: r.UpsertedCount,
		UpsertedID:    r.UpsertedID,
	}
}

func deleteResult(r *mongo.DeleteResult) model.DeleteResult {
	return model.DeleteResult{Acknowledged: true, DeletedCount: r.DeletedCount}
}

// EnsureIndexes creates the indexes the repositories rely on.  The unique
// index on users.email makes CreateIfAbsent atomic.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: primitive.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		MealsCollection:      {{Keys: primitive.D{{Key: "status", Value: 1}, {Key: "likeCount", Value: 1}}}},
		ReviewsCollection:    {{Keys: primitive.D{{Key: "reviewId", Value: 1}}}, {Keys: primitive.D{{Key: "email", Value: 1}}}},
		RequestsCollection:   {{Keys: primitive.D{{Key: "requestId", Value: 1}}}, {Keys: primitive.D{{Key: "email", Value: 1}}}},
		PaymentsCollection:   {{Keys: primitive.D{{Key: "email", Value: 1}}}},
		ComplaintsCollection: {{Keys: primitive.D{{Key: "email", Value: 1}}}},
	}
	for name, models := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
