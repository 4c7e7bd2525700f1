package repository

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/dining-hall/internal/model"
)

type UserRepo struct{ coll *mongo.Collection }

func NewUserRepo(db *mongo.Database) *UserRepo {
	return &UserRepo{coll: db.Collection(UsersCollection)}
}

func (r *UserRepo) List(ctx context.Context, q model.UserQuery) ([]model.User, error) {
	return findAll[model.User](ctx, r.coll, nameOrEmailFilter(q.Name, q.Email))
}

// GetByEmail returns nil, nil when no user has that email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return findOne[model.User](ctx, r.coll, bson.M{"email": email})
}

// CreateIfAbsent inserts u unless a user with the same email exists.  The
// upsert with $setOnInsert and the unique index on email make the check and
// the insert a single atomic step.  created reports whether a document was
// written.
func (r *UserRepo) CreateIfAbsent(ctx context.Context, u *model.User) (res model.InsertResult, created bool, err error) {
	if strings.TrimSpace(u.Email) == "" {
		return model.InsertResult{}, false, ErrEmptyEmail
	}
	up, err := r.coll.UpdateOne(ctx,
		bson.M{"email": u.Email},
		bson.M{"$setOnInsert": u},
		options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// lost a race against a concurrent insert of the same email
		return model.InsertResult{}, false, nil
	}
	if err != nil {
		return model.InsertResult{}, false, fmt.Errorf("create user: %w", err)
	}
	if up.UpsertedID == nil {
		return model.InsertResult{}, false, nil
	}
	return model.InsertResult{Acknowledged: true, InsertedID: up.UpsertedID}, true, nil
}

// SetBadge records the subscription package a user bought.
func (r *UserRepo) SetBadge(ctx context.Context, email, badge string) (model.UpdateResult, error) {
	return r.upsert(ctx, email, bson.M{"$set": bson.M{"badge": badge}})
}

// SetAbout replaces the free-form profile blob.
func (r *UserRepo) SetAbout(ctx context.Context, email string, about map[string]any) (model.UpdateResult, error) {
	return r.upsert(ctx, email, bson.M{"$set": bson.M{"about": about}})
}

// IncrementFoodCount counts a meal posted by email, creating a role-less
// stub user when none exists.  A user already stamped with op is left
// alone.
func (r *UserRepo) IncrementFoodCount(ctx context.Context, email, op string) (model.UpdateResult, error) {
	if strings.TrimSpace(email) == "" {
		return model.UpdateResult{}, ErrEmptyEmail
	}
	if op == "" {
		return model.UpdateResult{}, ErrNoOperation
	}
	filter := notApplied(bson.M{"email": email}, op)
	update := incrementOnce("foodCount", op)
	res, err := r.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if mongo.IsDuplicateKeyError(err) {
		// the user exists: either op was applied already or the user was
		// inserted concurrently.  Without upsert the update settles which.
		res, err = r.coll.UpdateOne(ctx, filter, update)
	}
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("count meal for %s: %w", email, err)
	}
	return updateResult(res), nil
}

func (r *UserRepo) PromoteToAdmin(ctx context.Context, id string) (model.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.UpdateResult{}, err
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"role": model.RoleAdmin}})
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("promote user: %w", err)
	}
	return updateResult(res), nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return model.DeleteResult{}, err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete user: %w", err)
	}
	return deleteResult(res), nil
}

func (r *UserRepo) upsert(ctx context.Context, email string, update bson.M) (model.UpdateResult, error) {
	if strings.TrimSpace(email) == "" {
		return model.UpdateResult{}, ErrEmptyEmail
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"email": email}, update, options.Update().SetUpsert(true))
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("upsert user %s: %w", email, err)
	}
	return updateResult(res), nil
}
