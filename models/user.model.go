package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user can hold. An empty role means a regular user.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// User represents a user in the system
type User struct {
	ID    primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Photo string             `bson:"photo,omitempty" json:"photo,omitempty"`
	Role  string             `bson:"role,omitempty" json:"role,omitempty"` // "admin", "moderator" or empty
}

// ValidRole reports whether role may be assigned to a user
func ValidRole(role string) bool {
	return role == "" || role == RoleAdmin || role == RoleModerator
}
