package controllers

import (
	"net/http"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"go.mongodb.org/mongo-driver/bson"
)

// ReportController handles product reports. Ids are raw strings.
type ReportController struct {
	Collection store.Collection
}

// NewReportController creates a new ReportController
func NewReportController(db *store.Database) *ReportController {
	return &ReportController{Collection: db.Reports}
}

// GetReports lists every report
func (rc *ReportController) GetReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	reports := []models.Report{}
	if err := rc.Collection.Find(ctx, bson.M{}, &reports); err != nil {
		storeFailed(w, "fetching reports", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, reports)
}

// CreateReport stores a report unless the same reporter already reported the product
func (rc *ReportController) CreateReport(w http.ResponseWriter, r *http.Request) {
	var report models.Report
	if !decodeBody(w, r, &report) {
		return
	}
	if report.ID == "" {
		report.ID = newStringID()
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	// duplicates are scoped to one reporter and product, not the whole collection
	filter := bson.M{"product_id": report.ProductID, "email": report.Email}
	result, err := rc.Collection.InsertIfAbsent(ctx, filter, report)
	if err != nil {
		storeFailed(w, "creating report", err)
		return
	}
	if result.InsertedID == nil {
		utils.WriteJSON(w, http.StatusOK, models.NewDuplicate("Report"))
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// DeleteReport removes a report
func (rc *ReportController) DeleteReport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := rc.Collection.DeleteOne(ctx, bson.M{"_id": stringIDParam(r)})
	if err != nil {
		storeFailed(w, "deleting report", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}
