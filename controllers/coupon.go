package controllers

import (
	"net/http"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// CouponController handles coupon CRUD
type CouponController struct {
	Collection store.Collection
}

// NewCouponController creates a new CouponController
func NewCouponController(db *store.Database) *CouponController {
	return &CouponController{Collection: db.Coupons}
}

func (cc *CouponController) GetCoupons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	coupons := []models.Coupon{}
	if err := cc.Collection.Find(ctx, bson.M{}, &coupons); err != nil {
		storeFailed(w, "fetching coupons", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, coupons)
}

func (cc *CouponController) GetCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	var coupon models.Coupon
	err := cc.Collection.FindOne(ctx, bson.M{"_id": id}, &coupon)
	writeFindOne(w, "fetching coupon", err, coupon)
}

func (cc *CouponController) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var coupon models.Coupon
	if !decodeBody(w, r, &coupon) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := cc.Collection.InsertOne(ctx, coupon)
	if err != nil {
		storeFailed(w, "creating coupon", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (cc *CouponController) UpdateCoupon(w http.ResponseWriter, r *http.Request) {
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

	result, err := cc.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		storeFailed(w, "updating coupon", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

func (cc *CouponController) DeleteCoupon(w http.ResponseWriter, r *http.Request) {
	id, ok := objectIDParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := cc.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		storeFailed(w, "deleting coupon", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
