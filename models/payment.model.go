package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Coupon is a discount code
type Coupon struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Code        string             `bson:"code" json:"code"`
	ExpiryDate  string             `bson:"expiry_date" json:"expiry_date"` // e.g. "2026-12-31"
	Discount    float64            `bson:"discount" json:"discount"`
	Description string             `bson:"description" json:"description"`
}

// Payment records a completed payment
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Email         string             `bson:"email" json:"email"`
	Name          string             `bson:"name" json:"name"`
	Price         float64            `bson:"price" json:"price"`
	Currency      string             `bson:"currency" json:"currency"`
	TransactionID string             `bson:"transaction_id" json:"transaction_id"`
	Date          time.Time          `bson:"date" json:"date"`
	Status        string             `bson:"status" json:"status"` // "pending", "completed"
	Metadata      map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
}
