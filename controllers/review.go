package controllers

import (
	"net/http"
	"time"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// ReviewController handles the append-only reviews and upvote records
type ReviewController struct {
	Reviews store.Collection
	Upvotes store.Collection
}

// NewReviewController creates a new ReviewController
func NewReviewController(db *store.Database) *ReviewController {
	return &ReviewController{Reviews: db.Reviews, Upvotes: db.Upvotes}
}

// GetReviews lists reviews, optionally only those of the productId query param
func (rc *ReviewController) GetReviews(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if productID := r.URL.Query().Get("productId"); productID != "" {
		filter["product_id"] = productID
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	reviews := []models.Review{}
	if err := rc.Reviews.Find(ctx, filter, &reviews); err != nil {
		storeFailed(w, "fetching reviews", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reviews)
}

// CreateReview appends a review
func (rc *ReviewController) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if !decodeBody(w, r, &review) {
		return
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := rc.Reviews.InsertOne(ctx, review)
	if err != nil {
		storeFailed(w, "creating review", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// CreateUpvote appends an upvote record. One vote per voter and product is
// not enforced here.
func (rc *ReviewController) CreateUpvote(w http.ResponseWriter, r *http.Request) {
	var upvote models.Upvote
	if !decodeBody(w, r, &upvote) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := rc.Upvotes.InsertOne(ctx, upvote)
	if err != nil {
		storeFailed(w, "recording upvote", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
