// Package store defines the document collections the API reads and writes,
// with a MongoDB implementation and an in-memory one.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a single-document lookup matches nothing
var ErrNotFound = errors.New("document not found")

// InsertResult acknowledges an insert. InsertedID is nil when nothing was inserted.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult acknowledges an update
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult acknowledges a delete
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

// Collection is the set of document operations handlers are allowed to use.
// Filters and updates are BSON-marshalable values (bson.M, structs).
type Collection interface {
	// Find decodes every matching document into results, a pointer to a slice.
	Find(ctx context.Context, filter interface{}, results interface{}) error
	// FindOne decodes the first matching document into result.
	FindOne(ctx context.Context, filter interface{}, result interface{}) error
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	InsertOne(ctx context.Context, document interface{}) (*InsertResult, error)
	// InsertIfAbsent inserts document unless a document matching filter
	// already exists. The check and the insert happen in one operation.
	InsertIfAbsent(ctx context.Context, filter interface{}, document interface{}) (*InsertResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*UpdateResult, error)
	// FindOneAndUpdate applies update to the first matching document and
	// decodes the updated document into result.
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, result interface{}) error
	DeleteOne(ctx context.Context, filter interface{}) (*DeleteResult, error)
}

// Collection names
const (
	UsersCollection       = "users"
	ProductsCollection    = "products"
	AllProductsCollection = "allProducts"
	FeaturedCollection    = "featured"
	ReportsCollection     = "report"
	ReviewsCollection     = "reviews"
	UpvotesCollection     = "upvotes"
	PaymentsCollection    = "payments"
	CouponsCollection     = "coupons"
)

// Database groups the collections the service owns
type Database struct {
	Users       Collection
	Products    Collection
	AllProducts Collection
	Featured    Collection
	Reports     Collection
	Reviews     Collection
	Upvotes     Collection
	Payments    Collection
	Coupons     Collection
}

// NewDatabase builds a Database by opening every named collection with open
func NewDatabase(open func(name string) Collection) *Database {
	return &Database{
		Users:       open(UsersCollection),
		Products:    open(ProductsCollection),
		AllProducts: open(AllProductsCollection),
		Featured:    open(FeaturedCollection),
		Reports:     open(ReportsCollection),
		Reviews:     open(ReviewsCollection),
		Upvotes:     open(UpvotesCollection),
		Payments:    open(PaymentsCollection),
		Coupons:     open(CouponsCollection),
	}
}

// NewMemoryDatabase returns a Database backed entirely by memory
func NewMemoryDatabase() *Database {
	return NewDatabase(func(string) Collection { return NewMemoryCollection() })
}
