package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/model"
)

// Counter fields on a meal document.
const (
	MealLikeCount   = "likeCount"
	MealReviewCount = "reviewCount"
)

type MealRepo struct{ coll *mongo.Collection }

func NewMealRepo(db *mongo.Database) *MealRepo {
	return &MealRepo{coll: db.Collection(MealsCollection)}
}

// ListAvailable returns available meals matching q, in storage order.
func (r *MealRepo) ListAvailable(ctx context.Context, q model.MealQuery) ([]model.Meal, error) {
	return findAll[model.Meal](ctx, r.coll, availableMealsFilter(q))
}

// ListByStatus returns meals in the given status, optionally sorted.
func (r *MealRepo) ListByStatus(ctx context.Context, status model.MealStatus, sort *model.Sort) ([]model.Meal, error) {
	return findAll[model.Meal](ctx, r.coll, bson.M{"status": bson.M{"$eq": status}}, findOptions(sort))
}

// ListAll returns every meal regardless of status.
func (r *MealRepo) ListAll(ctx context.Context, sort *model.Sort) ([]model.Meal, error) {
	return findAll[model.Meal](ctx, r.coll, bson.M{}, findOptions(sort))
}

// Get returns nil, nil when the meal does not exist.
func (r *MealRepo) Get(ctx context.Context, id string) (*model.Meal, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return findOne[model.Meal](ctx, r.coll, bson.M{"_id": oid})
}

func (r *MealRepo) Create(ctx context.Context, m *model.Meal) (model.InsertResult, error) {
	if m.LikeArray == nil {
		m.LikeArray = []string{}
	}
	res, err := r.coll.InsertOne(ctx, m)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert meal: %w", err)
	}
	return insertResult(res), nil
}

// Update replaces the admin-editable fields only; counters and status are
// left untouched.
func (r *MealRepo) Update(ctx context.Context, id string, e model.MealEdit) (model.UpdateResult, error) {
	return r.set(ctx, id, bson.M{
		"name":     e.Name,
		"category": e.Category,
		"price":    e.Price,
		"image":    e.Image,
		"rating":   e.Rating,
	})
}

func (r *MealRepo) SetStatus(ctx context.Context, id string, status model.MealStatus) (model.UpdateResult, error) {
	return r.set(ctx, id, bson.M{"status": status})
}

func (r *MealRepo) SetLikeArray(ctx context.Context, id string, likers []string) (model.UpdateResult, error) {
	if likers == nil {
		likers = []string{}
	}
	return r.set(ctx, id, bson.M{"likeArray": likers})
}

// IncrementCounter adds one to likeCount or reviewCount.  A missing meal is
// reported through MatchedCount == 0, not an error.
func (r *MealRepo) IncrementCounter(ctx context.Context, id, field string) (model.UpdateResult, error) {
	if field != MealLikeCount && field != MealReviewCount {
		return model.UpdateResult{}, fmt.Errorf("unknown meal counter %q", field)
	}
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{field: 1}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("increment meal %s: %w", field, err)
	}
	return updateResult(res), nil
}

func (r *MealRepo) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete meal: %w", err)
	}
	return deleteResult(res), nil
}

func (r *MealRepo) set(ctx context.Context, id string, fields bson.M) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("update meal: %w", err)
	}
	return updateResult(res), nil
}
