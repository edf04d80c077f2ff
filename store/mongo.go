package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCollection implements Collection on top of a MongoDB collection
type MongoCollection struct {
	coll *mongo.Collection
}

// NewMongoCollection wraps coll
func NewMongoCollection(coll *mongo.Collection) *MongoCollection {
	return &MongoCollection{coll: coll}
}

// NewMongoDatabase opens every service collection in db
func NewMongoDatabase(db *mongo.Database) *Database {
	return NewDatabase(func(name string) Collection {
		return NewMongoCollection(db.Collection(name))
	})
}

// EnsureIndexes creates the unique index that backs user de-duplication
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

func (mc *MongoCollection) Find(ctx context.Context, filter interface{}, results interface{}) error {
	cursor, err := mc.coll.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("find in %s: %w", mc.coll.Name(), err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, results); err != nil {
		return fmt.Errorf("decode %s: %w", mc.coll.Name(), err)
	}
	return nil
}

func (mc *MongoCollection) FindOne(ctx context.Context, filter interface{}, result interface{}) error {
	err := mc.coll.FindOne(ctx, filter).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find one in %s: %w", mc.coll.Name(), err)
	}
	return nil
}

func (mc *MongoCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	count, err := mc.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", mc.coll.Name(), err)
	}
	return count, nil
}

func (mc *MongoCollection) InsertOne(ctx context.Context, document interface{}) (*InsertResult, error) {
	result, err := mc.coll.InsertOne(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", mc.coll.Name(), err)
	}
	return &InsertResult{Acknowledged: true, InsertedID: result.InsertedID}, nil
}

// InsertIfAbsent runs an upsert whose update only sets fields on insert, so an
// existing match is left untouched.
func (mc *MongoCollection) InsertIfAbsent(ctx context.Context, filter interface{}, document interface{}) (*InsertResult, error) {
	result, err := mc.coll.UpdateOne(ctx, filter,
		bson.M{"$setOnInsert": document},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// lost a race against a concurrent insert of the same key
		return &InsertResult{Acknowledged: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("upsert into %s: %w", mc.coll.Name(), err)
	}
	if result.UpsertedCount == 0 {
		return &InsertResult{Acknowledged: true}, nil
	}
	return &InsertResult{Acknowledged: true, InsertedID: result.UpsertedID}, nil
}

func (mc *MongoCollection) UpdateOne(ctx context.Context, filter interface{}, update interface{}) (*UpdateResult, error) {
	result, err := mc.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", mc.coll.Name(), err)
	}
	return &UpdateResult{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
		UpsertedID:    result.UpsertedID,
	}, nil
}

func (mc *MongoCollection) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, result interface{}) error {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := mc.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(result)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find and update %s: %w", mc.coll.Name(), err)
	}
	return nil
}

func (mc *MongoCollection) DeleteOne(ctx context.Context, filter interface{}) (*DeleteResult, error) {
	result, err := mc.coll.DeleteOne(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("delete from %s: %w", mc.coll.Name(), err)
	}
	return &DeleteResult{Acknowledged: true, DeletedCount: result.DeletedCount}, nil
}
