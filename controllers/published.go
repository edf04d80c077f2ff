package controllers

import (
	"net/http"
	"regexp"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PublishedController handles the allProducts collection. Ids are raw strings.
type PublishedController struct {
	Collection store.Collection
}

// NewPublishedController creates a new PublishedController
func NewPublishedController(db *store.Database) *PublishedController {
	return &PublishedController{Collection: db.AllProducts}
}

// SearchProducts lists published products whose tags contain the search
// query param, case-insensitively. No query lists everything.
func (pc *PublishedController) SearchProducts(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["tags"] = primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	products := []models.PublishedProduct{}
	if err := pc.Collection.Find(ctx, filter, &products); err != nil {
		storeFailed(w, "searching products", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GetProduct retrieves one published product
func (pc *PublishedController) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	var product models.PublishedProduct
	err := pc.Collection.FindOne(ctx, bson.M{"_id": stringIDParam(r)}, &product)
	writeFindOne(w, "fetching product", err, product)
}

// PublishProduct inserts the posted product unless one matching every
// submitted field exists
func (pc *PublishedController) PublishProduct(w http.ResponseWriter, r *http.Request) {
	var product models.PublishedProduct
	filter, ok := decodeSubmitted(w, r, &product)
	if !ok {
		return
	}

	if product.ID == "" {
		product.ID = newStringID()
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.InsertIfAbsent(ctx, filter, product)
	if err != nil {
		storeFailed(w, "publishing product", err)
		return
	}
	if result.InsertedID == nil {
		utils.WriteJSON(w, http.StatusOK, models.NewDuplicate("Product"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpdateProduct applies the posted fields to a published product
func (pc *PublishedController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": stringIDParam(r)}, bson.M{"$set": fields})
	if err != nil {
		storeFailed(w, "updating product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// UpvoteProduct increments a published product's upvote count
func (pc *PublishedController) UpvoteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": stringIDParam(r)}, bson.M{
		"$inc": bson.M{"upvote": 1},
	})
	if err != nil {
		storeFailed(w, "upvoting product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteProduct removes a published product
func (pc *PublishedController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": stringIDParam(r)})
	if err != nil {
		storeFailed(w, "deleting product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
