package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/iliyamo/dining-hall/internal/model"
)

type ComplaintRepo struct{ coll *mongo.Collection }

func NewComplaintRepo(db *mongo.Database) *ComplaintRepo {
	return &ComplaintRepo{coll: db.Collection(ComplaintsCollection)}
}

func (r *ComplaintRepo) Create(ctx context.Context, c *model.Complaint) (model.InsertResult, error) {
	res, err := r.coll.InsertOne(ctx, c)
	if err != nil {
		return model.InsertResult{}, fmt.Errorf("insert complaint: %w", err)
	}
	return insertResult(res), nil
}

func (r *ComplaintRepo) List(ctx context.Context) ([]model.Complaint, error) {
	return findAll[model.Complaint](ctx, r.coll, bson.M{})
}

func (r *ComplaintRepo) ListByEmail(ctx context.Context, email string) ([]model.Complaint, error) {
	return findAll[model.Complaint](ctx, r.coll, bson.M{"email": email})
}

func (r *ComplaintRepo) UpdateDetails(ctx context.Context, id, details string) (model.UpdateResult, error) {
	return r.set(ctx, id, "details", details)
}

func (r *ComplaintRepo) UpdateStatus(ctx context.Context, id, status string) (model.UpdateResult, error) {
	return r.set(ctx, id, "status", status)
}

func (r *ComplaintRepo) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete complaint: %w", err)
	}
	return deleteResult(res), nil
}

func (r *ComplaintRepo) set(ctx context.Context, id, field, value string) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{field: value}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("update complaint %s: %w", field, err)
	}
	return updateResult(res), nil
}
