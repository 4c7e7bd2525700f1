package model

import (
	"encoding/json"
	"reflect"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealStatus is the lifecycle state of a meal.  Upcoming meals are promoted
// to available by an admin.
type MealStatus string

const (
	MealAvailable MealStatus = "available"
	MealUpcoming  MealStatus = "upcoming"
)

// Meal is a document in the `meals` collection.  LikeCount and ReviewCount
// are maintained by the counter endpoints; LikeArray is replaced wholesale
// by the client.  Fields the client posts that Meal does not name are kept
// in Extra and stored alongside the named ones.
type Meal struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Image       string             `json:"image" bson:"image"`
	Rating      float64            `json:"rating" bson:"rating"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Ingredients string             `json:"ingredients,omitempty" bson:"ingredients,omitempty"`
	Status      MealStatus         `json:"status" bson:"status"`
	LikeCount   int                `json:"likeCount" bson:"likeCount"`
	ReviewCount int                `json:"reviewCount" bson:"reviewCount"`
	LikeArray   []string           `json:"likeArray" bson:"likeArray"`
	AdminName   string             `json:"adminName,omitempty" bson:"adminName,omitempty"`
	AdminEmail  string             `json:"adminEmail,omitempty" bson:"adminEmail,omitempty"`
	PostTime    string             `json:"postTime,omitempty" bson:"postTime,omitempty"`
	Extra       map[string]any     `json:"-" bson:",inline"`
}

func (m *Meal) UnmarshalJSON(b []byte) error {
	type plain Meal
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	extra, err := extraFields(b, reflect.TypeOf(p))
	if err != nil {
		return err
	}
	p.Extra = extra
	*m = Meal(p)
	return nil
}

func (m Meal) MarshalJSON() ([]byte, error) {
	type plain Meal
	return withExtra(plain(m), m.Extra)
}

// MealEdit carries the fields an admin may replace on an existing meal.
type MealEdit struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
	Rating   float64 `json:"rating"`
}

// MealQuery narrows the available-meal listing.  Zero values mean "no
// constraint"; MinPrice is a pointer because zero is a valid bound.
type MealQuery struct {
	Name     string
	Category string
	MinPrice *float64
}

// Sort orders a listing by one field.  Order is 1 (ascending) or -1.
type Sort struct {
	Field string
	Order int
}
