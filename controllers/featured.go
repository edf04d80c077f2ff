package controllers

import (
	"errors"
	"net/http"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// UpvoteAddedMessage is returned when a featured entry was already upvoted
const UpvoteAddedMessage = "Upvote already added"

// FeaturedController handles the curated featured list. Ids are raw strings.
type FeaturedController struct {
	Collection store.Collection
}

// NewFeaturedController creates a new FeaturedController
func NewFeaturedController(db *store.Database) *FeaturedController {
	return &FeaturedController{Collection: db.Featured}
}

// GetFeatured lists every featured entry
func (fc *FeaturedController) GetFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	featured := []models.Featured{}
	if err := fc.Collection.Find(ctx, bson.M{}, &featured); err != nil {
		storeFailed(w, "fetching featured", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, featured)
}

// AddFeatured inserts the posted entry unless one matching every submitted
// field exists. The vote count and flag are not part of the match.
func (fc *FeaturedController) AddFeatured(w http.ResponseWriter, r *http.Request) {
	var entry models.Featured
	filter, ok := decodeSubmitted(w, r, &entry)
	if !ok {
		return
	}

	if entry.ID == "" {
		entry.ID = newStringID()
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := fc.Collection.InsertIfAbsent(ctx, filter, entry)
	if err != nil {
		storeFailed(w, "adding featured", err)
		return
	}
	if result.InsertedID == nil {
		utils.WriteJSON(w, http.StatusOK, models.NewDuplicate("Featured"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpvoteFeatured increments an entry's upvote count once. The flag check and
// the increment are one conditional update, so repeated or concurrent calls
// count at most one vote.
func (fc *FeaturedController) UpvoteFeatured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	filter := bson.M{"_id": stringIDParam(r), "upvoted": bson.M{"$ne": true}}
	update := bson.M{
		"$inc": bson.M{"upvote": 1},
		"$set": bson.M{"upvoted": true},
	}

	var entry models.Featured
	err := fc.Collection.FindOneAndUpdate(ctx, filter, update, &entry)
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteMessage(w, http.StatusOK, UpvoteAddedMessage)
		return
	}
	if err != nil {
		storeFailed(w, "upvoting featured", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, entry)
}
