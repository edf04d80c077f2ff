package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductFields are the display fields shared by every product listing
type ProductFields struct {
	Name         string   `bson:"product_name" json:"product_name"`
	Image        string   `bson:"product_image" json:"product_image"`
	Description  string   `bson:"description" json:"description"`
	ExternalLink string   `bson:"external_link" json:"external_link"`
	Tags         []string `bson:"tags,omitempty" json:"tags,omitempty"`
	OwnerName    string   `bson:"owner_name" json:"owner_name"`
	OwnerEmail   string   `bson:"email" json:"email"`
	OwnerImage   string   `bson:"owner_image" json:"owner_image"`
	Status       string   `bson:"status" json:"status"` // "pending", "accepted", "rejected"
	Timestamp    string   `bson:"timestamp" json:"timestamp"`
}

// Product is a pending submission
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductFields `bson:",inline"`
}

// PublishedProduct is a promoted copy of a Product. Its id is the raw string
// carried over from the submission.
type PublishedProduct struct {
	ID            string `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductFields `bson:",inline"`
	Upvote        int `bson:"upvote" json:"upvote"`
}

// Featured is an entry in the curated featured list
type Featured struct {
	ID            string `bson:"_id,omitempty" json:"_id,omitempty"`
	ProductFields `bson:",inline"`
	Upvote        int  `bson:"upvote" json:"upvote"`
	Upvoted       bool `bson:"upvoted" json:"upvoted"`
}
