package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listing struct {
	ID      string   `bson:"_id,omitempty"`
	Name    string   `bson:"name"`
	Tags    []string `bson:"tags"`
	Upvote  int      `bson:"upvote"`
	Upvoted bool     `bson:"upvoted"`
}

func TestMemoryCollectionInsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	res, err := coll.InsertOne(ctx, bson.M{"name": "Widget"})
	require.NoError(t, err)
	assert.True(t, res.Acknowledged)
	id, ok := res.InsertedID.(primitive.ObjectID)
	require.True(t, ok, "generated id should be an ObjectID")

	var doc bson.M
	require.NoError(t, coll.FindOne(ctx, bson.M{"_id": id}, &doc))
	assert.Equal(t, "Widget", doc["name"])

	err = coll.FindOne(ctx, bson.M{"name": "Gadget"}, &doc)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryCollectionKeepsStringIDs(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	res, err := coll.InsertOne(ctx, listing{ID: "abc", Name: "Widget"})
	require.NoError(t, err)
	assert.Equal(t, "abc", res.InsertedID)

	_, err = coll.InsertOne(ctx, listing{ID: "abc", Name: "Other"})
	assert.Error(t, err, "duplicate _id must be rejected")

	var got listing
	require.NoError(t, coll.FindOne(ctx, bson.M{"_id": "abc"}, &got))
	assert.Equal(t, "Widget", got.Name)
}

func TestMemoryCollectionFindDecodesSlice(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	for _, name := range []string{"a", "b", "c"} {
		_, err := coll.InsertOne(ctx, listing{Name: name})
		require.NoError(t, err)
	}

	var all []listing
	require.NoError(t, coll.Find(ctx, bson.M{}, &all))
	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].Name)
	assert.NotEmpty(t, all[0].ID, "ObjectID should decode into a string id as hex")

	var none []listing
	require.NoError(t, coll.Find(ctx, bson.M{"name": "zzz"}, &none))
	assert.NotNil(t, none)
	assert.Empty(t, none)

	var notSlice listing
	assert.Error(t, coll.Find(ctx, bson.M{}, &notSlice))
}

func TestMemoryCollectionMatchesArrays(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	docs := []listing{
		{Name: "one", Tags: []string{"Phone", "Android"}},
		{Name: "two", Tags: []string{"laptop"}},
		{Name: "three", Tags: []string{"smartPHONE"}},
		{Name: "four"},
	}
	for _, d := range docs {
		_, err := coll.InsertOne(ctx, d)
		require.NoError(t, err)
	}

	var found []listing
	require.NoError(t, coll.Find(ctx, bson.M{"tags": primitive.Regex{Pattern: "phone", Options: "i"}}, &found))
	names := []string{}
	for _, f := range found {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"one", "three"}, names)

	require.NoError(t, coll.Find(ctx, bson.M{"tags": primitive.Regex{Pattern: "phone"}}, &found))
	assert.Empty(t, found, "regex without the i option is case-sensitive")

	require.NoError(t, coll.Find(ctx, bson.M{"tags": "laptop"}, &found))
	require.Len(t, found, 1)
	assert.Equal(t, "two", found[0].Name)
}

func TestMemoryCollectionUpdateOne(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, listing{ID: "p1", Name: "Widget"})
	require.NoError(t, err)

	res, err := coll.UpdateOne(ctx, bson.M{"_id": "p1"}, bson.M{
		"$set": bson.M{"name": "Widget 2"},
		"$inc": bson.M{"upvote": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(1), res.ModifiedCount)

	res, err = coll.UpdateOne(ctx, bson.M{"_id": "p1"}, bson.M{"$set": bson.M{"name": "Widget 2"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.MatchedCount)
	assert.Equal(t, int64(0), res.ModifiedCount, "setting the same value modifies nothing")

	res, err = coll.UpdateOne(ctx, bson.M{"_id": "missing"}, bson.M{"$inc": bson.M{"upvote": 1}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.MatchedCount)

	var got listing
	require.NoError(t, coll.FindOne(ctx, bson.M{"_id": "p1"}, &got))
	assert.Equal(t, "Widget 2", got.Name)
	assert.Equal(t, 1, got.Upvote)

	_, err = coll.UpdateOne(ctx, bson.M{"_id": "p1"}, bson.M{"$set": bson.M{"_id": "p2"}})
	assert.Error(t, err)
	_, err = coll.UpdateOne(ctx, bson.M{"_id": "p1"}, bson.M{"name": "replacement"})
	assert.Error(t, err, "replacement documents are not supported")
}

func TestMemoryCollectionInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	res, err := coll.InsertIfAbsent(ctx, bson.M{"email": "a@example.com"}, bson.M{"email": "a@example.com", "name": "A"})
	require.NoError(t, err)
	assert.NotNil(t, res.InsertedID)

	res, err = coll.InsertIfAbsent(ctx, bson.M{"email": "a@example.com"}, bson.M{"email": "a@example.com", "name": "Other"})
	require.NoError(t, err)
	assert.Nil(t, res.InsertedID)

	count, err := coll.CountDocuments(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCollectionInsertIfAbsentSeedsFilterFields(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertIfAbsent(ctx, bson.M{"email": "a@example.com"}, bson.M{"name": "A"})
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, coll.FindOne(ctx, bson.M{"name": "A"}, &doc))
	assert.Equal(t, "a@example.com", doc["email"])
}

func TestMemoryCollectionInsertIfAbsentTakenID(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, listing{ID: "abc", Name: "Widget"})
	require.NoError(t, err)

	// the filter misses, but the id is taken: reported as existing, like a duplicate key
	res, err := coll.InsertIfAbsent(ctx, bson.M{"name": "Other"}, listing{ID: "abc", Name: "Other"})
	require.NoError(t, err)
	assert.Nil(t, res.InsertedID)

	n, err := coll.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestMemoryCollectionInsertIfAbsentConcurrent(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	var wg sync.WaitGroup
	var mu sync.Mutex
	inserted := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := coll.InsertIfAbsent(ctx, bson.M{"email": "race@example.com"}, bson.M{"email": "race@example.com"})
			if assert.NoError(t, err) && res.InsertedID != nil {
				mu.Lock()
				inserted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, inserted)
	count, err := coll.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCollectionFindOneAndUpdateWithNe(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, listing{ID: "f1", Name: "Featured"})
	require.NoError(t, err)

	filter := bson.M{"_id": "f1", "upvoted": bson.M{"$ne": true}}
	update := bson.M{"$inc": bson.M{"upvote": 1}, "$set": bson.M{"upvoted": true}}

	var got listing
	require.NoError(t, coll.FindOneAndUpdate(ctx, filter, update, &got))
	assert.True(t, got.Upvoted)
	assert.Equal(t, 1, got.Upvote)

	err = coll.FindOneAndUpdate(ctx, filter, update, &got)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, coll.FindOne(ctx, bson.M{"_id": "f1"}, &got))
	assert.Equal(t, 1, got.Upvote)
}

func TestMemoryCollectionNeMatchesMissingField(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, bson.M{"_id": "x"})
	require.NoError(t, err)

	count, err := coll.CountDocuments(ctx, bson.M{"flag": bson.M{"$ne": true}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = coll.CountDocuments(ctx, bson.M{"_id": bson.M{"$eq": "x"}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCollectionDeleteOne(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, listing{ID: "a"})
	require.NoError(t, err)
	_, err = coll.InsertOne(ctx, listing{ID: "b"})
	require.NoError(t, err)

	res, err := coll.DeleteOne(ctx, bson.M{"_id": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.DeletedCount)

	res, err = coll.DeleteOne(ctx, bson.M{"_id": "a"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.DeletedCount)

	count, err := coll.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestMemoryCollectionUnsupportedOperator(t *testing.T) {
	ctx := context.Background()
	coll := NewMemoryCollection()

	_, err := coll.InsertOne(ctx, bson.M{"n": 1})
	require.NoError(t, err)

	_, err = coll.CountDocuments(ctx, bson.M{"n": bson.M{"$gt": 0}})
	assert.Error(t, err)
}

func TestNewMemoryDatabaseSeparatesCollections(t *testing.T) {
	ctx := context.Background()
	db := NewMemoryDatabase()

	_, err := db.Users.InsertOne(ctx, bson.M{"email": "a@example.com"})
	require.NoError(t, err)

	count, err := db.Products.CountDocuments(ctx, bson.M{})
	require.NoError(t, err)
	assert.Zero(t, count)
}
