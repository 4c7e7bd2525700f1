package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Review is a document in the `reviews` collection.  MealID is stored under
// the historical field name "reviewId" and is not checked against meals.
type Review struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	MealID string             `json:"reviewId" bson:"reviewId"`
	Email  string             `json:"email" bson:"email"`
	Name   string             `json:"name,omitempty" bson:"name,omitempty"`
	Title  string             `json:"title" bson:"title"`
	Review string             `json:"review" bson:"review"`
	Like   bool               `json:"like" bson:"like"`
}

// ReviewWithMeal is a review joined with the meal it references.  MealInfo
// is nil when the meal no longer exists.
type ReviewWithMeal struct {
	Review
	MealInfo *Meal `json:"mealInfo"`
}
