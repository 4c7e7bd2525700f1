package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/model"
)

// Counter fields on a request document, mirrored from the meal.
const (
	RequestLike   = "like"
	RequestReview = "review"
)

type RequestRepo struct{ coll *mongo.Collection }

func NewRequestRepo(db *mongo.Database) *RequestRepo {
	return &RequestRepo{coll: db.Collection(RequestsCollection)}
}

func (r *RequestRepo) Create(ctx context.Context, req *model.Request) (model.InsertResult, error) {
	if req.Status == "" {
		req.Status = model.RequestRequested
	}
	res, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert request: %w", err)
	}
	return insertResult(res), nil
}

func (r *RequestRepo) List(ctx context.Context, q model.RequestQuery) ([]model.Request, error) {
	return findAll[model.Request](ctx, r.coll, nameOrEmailFilter(q.Name, q.Email))
}

// ListByEmail is an exact match, unlike the substring search in List.
func (r *RequestRepo) ListByEmail(ctx context.Context, email string) ([]model.Request, error) {
	return findAll[model.Request](ctx, r.coll, bson.M{"email": email})
}

func (r *RequestRepo) MarkServed(ctx context.Context, id string) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"status": model.RequestServed}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("serve request: %w", err)
	}
	return updateResult(res), nil
}

// IncrementForMeal propagates a meal counter change to every request that
// references the meal.  Requests already stamped with op are skipped, so
// calling it again with the same op only reaches requests the earlier call
// missed.  Requests are never created here.
func (r *RequestRepo) IncrementForMeal(ctx context.Context, mealID, field, op string) (model.UpdateResult, error) {
	if field != RequestLike && field != RequestReview {
		return model.UpdateResult{}, fmt.Errorf("unknown request counter %q", field)
	}
	if op == "" {
		return model.UpdateResult{}, ErrNoOperation
	}
	res, err := r.coll.UpdateMany(ctx, notApplied(bson.M{"requestId": mealID}, op), incrementOnce(field, op))
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("fan out %s to requests of %s: %w", field, mealID, err)
	}
	return updateResult(res), nil
}

func (r *RequestRepo) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete request: %w", err)
	}
	return deleteResult(res), nil
}
