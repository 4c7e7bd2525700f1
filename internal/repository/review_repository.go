package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/model"
)

type ReviewRepo struct{ coll *mongo.Collection }

func NewReviewRepo(db *mongo.Database) *ReviewRepo {
	return &ReviewRepo{coll: db.Collection(ReviewsCollection)}
}

func (r *ReviewRepo) Create(ctx context.Context, rv *model.Review) (model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, rv)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert review: %w", err)
	}
	return insertResult(res), nil
}

func (r *ReviewRepo) List(ctx context.Context) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.coll, bson.M{})
}

// ListByMeal returns the reviews written for one meal.
func (r *ReviewRepo) ListByMeal(ctx context.Context, mealID string) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.coll, bson.M{"reviewId": mealID})
}

func (r *ReviewRepo) ListByEmail(ctx context.Context, email string) ([]model.Review, error) {
	return findAll[model.Review](ctx, r.coll, bson.M{"email": email})
}

// FindByEmailTitle returns nil, nil when nothing matches.
func (r *ReviewRepo) FindByEmailTitle(ctx context.Context, email, title string) (*model.Review, error) {
	return findOne[model.Review](ctx, r.coll, bson.M{"email": email, "title": title})
}

func (r *ReviewRepo) UpdateText(ctx context.Context, id, text string) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"review": text}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("update review: %w", err)
	}
	return updateResult(res), nil
}

// MarkLiked flags every review of a meal as liked.
func (r *ReviewRepo) MarkLiked(ctx context.Context, mealID string) (model.UpdateResult, error) {
	res, err := r.coll.UpdateMany(ctx, bson.M{"reviewId": mealID}, bson.M{"$set": bson.M{"like": true}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("like reviews of %s: %w", mealID, err)
	}
	return updateResult(res), nil
}

func (r *ReviewRepo) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete review: %w", err)
	}
	return deleteResult(res), nil
}
