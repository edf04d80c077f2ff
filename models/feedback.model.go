package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report flags a product for moderation
type Report struct {
	ID          string `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID   string `bson:"product_id" json:"product_id"`
	ProductName string `bson:"product_name" json:"product_name"`
	Email       string `bson:"email" json:"email"` // reporter
	Reason      string `bson:"reason" json:"reason"`
}

// Review is a user's rating of a product
type Review struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Image     string             `bson:"image" json:"image"`
	Rating    float64            `bson:"rating" json:"rating"`
	Comment   string             `bson:"comment" json:"comment"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Upvote records that a voter upvoted a product
type Upvote struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductID string             `bson:"product_id" json:"product_id"`
	Email     string             `bson:"email" json:"email"`
}
