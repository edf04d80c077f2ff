package controllers

import (
	"net/http"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// ProductController handles submitted (pending) products
type ProductController struct {
	Collection store.Collection
}

// NewProductController creates a new ProductController
func NewProductController(db *store.Database) *ProductController {
	return &ProductController{Collection: db.Products}
}

// CreateProduct stores a new submission
func (pc *ProductController) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var product models.Product
	if !decodeBody(w, r, &product) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.InsertOne(ctx, product)
	if err != nil {
		storeFailed(w, "creating product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// GetProducts retrieves all submissions
func (pc *ProductController) GetProducts(w http.ResponseWriter, r *http.Request) {
	pc.find(w, r, bson.M{})
}

// GetProductsByEmail retrieves the caller's own submissions
func (pc *ProductController) GetProductsByEmail(w http.ResponseWriter, r *http.Request) {
	email, ok := requireOwnEmail(w, r)
	if !ok {
		return
	}
	pc.find(w, r, bson.M{"email": email})
}

func (pc *ProductController) find(w http.ResponseWriter, r *http.Request, filter bson.M) {
	ctx, cancel := storeContext(r)
	defer cancel()

	products := []models.Product{}
	if err := pc.Collection.Find(ctx, filter, &products); err != nil {
		storeFailed(w, "fetching products", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, products)
}

// GetProductByID retrieves a single submission by ID
func (pc *ProductController) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	var product models.Product
	err := pc.Collection.FindOne(ctx, bson.M{"_id": id}, &product)
	writeFindOne(w, "fetching product", err, product)
}

// UpdateProduct applies the posted fields to a submission, e.g. its status
func (pc *ProductController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}
	fields, ok := decodeFields(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		storeFailed(w, "updating product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteProduct removes a submission
func (pc *ProductController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, "deleting product", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
