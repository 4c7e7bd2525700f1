package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Complaint is a document in the `complains` collection.
type Complaint struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email   string             `json:"email" bson:"email"`
	Name    string             `json:"name,omitempty" bson:"name,omitempty"`
	Title   string             `json:"title,omitempty" bson:"title,omitempty"`
	Details string             `json:"details" bson:"details"`
	Status  string             `json:"status,omitempty" bson:"status,omitempty"`
	Date    string             `json:"date,omitempty" bson:"date,omitempty"`
}
