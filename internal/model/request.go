package model

import "go.mongodb.org/mongo-driver/bson/primitive"

type RequestStatus string

const (
	RequestRequested RequestStatus = "requested"
	RequestServed    RequestStatus = "served"
)

// Request is a meal request in the `requests` collection.  MealID is stored
// under the historical field name "requestId".  Like and Review mirror the
// meal's counters through fan-out writes.
type Request struct {
	ID     primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	MealID string             `json:"requestId" bson:"requestId"`
	Email  string             `json:"email" bson:"email"`
	Name   string             `json:"name,omitempty" bson:"name,omitempty"`
	Title  string             `json:"title,omitempty" bson:"title,omitempty"`
	Status RequestStatus      `json:"status" bson:"status"`
	Like   int                `json:"like" bson:"like"`
	Review int                `json:"review" bson:"review"`
}

// RequestQuery filters the request listing the same way UserQuery filters
// users: Name first, then Email.
type RequestQuery struct {
	Name  string
	Email string
}
