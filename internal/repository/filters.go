package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/iliyamo/dining-hall/internal/model"
)

// contains matches s anywhere in a field, ignoring case.  User input is
// quoted so it is never interpreted as a pattern.
func contains(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// availableMealsFilter always pins status to available; the optional
// constraints only narrow it further.
func availableMealsFilter(q model.MealQuery) bson.M {
	f := bson.M{"status": bson.M{"$eq": model.MealAvailable}}
	if q.Name != "" {
		f["name"] = contains(q.Name)
	}
	if q.Category != "" {
		f["category"] = q.Category
	}
	if q.MinPrice != nil {
		f["price"] = bson.M{"$gte": *q.MinPrice}
	}
	return f
}

// nameOrEmailFilter implements the shared userName/email search used by the
// user and request listings.  Name wins when both are present.
func nameOrEmailFilter(name, email string) bson.M {
	switch {
	case name != "":
		return bson.M{"name": contains(name)}
	case email != "":
		return bson.M{"email": contains(email)}
	}
	return bson.M{}
}

func findOptions(sort *model.Sort) *options.FindOptions {
	opts := options.Find()
	if sort != nil && sort.Field != "" {
		opts.SetSort(bson.D{{Key: sort.Field, Value: sort.Order}})
	}
	return opts
}
