package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin is the only role the service distinguishes.
const RoleAdmin = "admin"

// User is a document in the `users` collection.  Email is the functional
// key and carries a unique index.  Stub users created by the meal-post
// counter have only Email and FoodCount.
type User struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name,omitempty" bson:"name,omitempty"`
	Email     string             `json:"email" bson:"email"`
	Photo     string             `json:"photo,omitempty" bson:"photo,omitempty"`
	Role      string             `json:"role,omitempty" bson:"role,omitempty"`
	Badge     string             `json:"badge,omitempty" bson:"badge,omitempty"`
	About     map[string]any     `json:"about,omitempty" bson:"about,omitempty"`
	FoodCount int                `json:"foodCount,omitempty" bson:"foodCount,omitempty"`
}

// IsAdmin reports whether the user carries the admin role.  A nil user is
// never an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// UserQuery filters the admin user listing.  Name takes precedence over
// Email; both are case-insensitive substring matches.
type UserQuery struct {
	Name  string
	Email string
}
