// routes/routes.go
package routes

import (
	"net/http"

	"techapps/controllers"
	"techapps/middleware"
	"techapps/store"

	"github.com/gorilla/mux"
)

// Controllers groups every controller the router dispatches to
type Controllers struct {
	Users     *controllers.UserController
	Products  *controllers.ProductController
	Published *controllers.PublishedController
	Featured  *controllers.FeaturedController
	Reports   *controllers.ReportController
	Reviews   *controllers.ReviewController
	Coupons   *controllers.CouponController
	Payments  *controllers.PaymentController
}

// NewControllers builds every controller over db
func NewControllers(db *store.Database, gateway controllers.PaymentIntentCreator, receipts controllers.ReceiptSender) Controllers {
	return Controllers{
		Users:     controllers.NewUserController(db),
		Products:  controllers.NewProductController(db),
		Published: controllers.NewPublishedController(db),
		Featured:  controllers.NewFeaturedController(db),
		Reports:   controllers.NewReportController(db),
		Reviews:   controllers.NewReviewController(db),
		Coupons:   controllers.NewCouponController(db),
		Payments:  controllers.NewPaymentController(db, gateway, receipts),
	}
}

// RegisterRoutes sets up all the routes for the application. users backs the role gates.
func RegisterRoutes(router *mux.Router, c Controllers, users store.Collection) {
	token := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(middleware.AdminMiddleware(users)(h))
	}

	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Tech Apps is running"))
	}).Methods("GET")

	// Token issuance
	router.HandleFunc("/jwt", c.Users.IssueToken).Methods("POST")

	// User routes
	router.Handle("/users", admin(c.Users.GetUsers)).Methods("GET")
	router.HandleFunc("/users", c.Users.CreateUser).Methods("POST")
	router.Handle("/users/admin/{email}", token(c.Users.CheckAdmin)).Methods("GET")
	router.Handle("/users/moderator/{email}", token(c.Users.CheckModerator)).Methods("GET")
	router.Handle("/users/admin/{id}", admin(c.Users.UpdateRole)).Methods("PATCH")
	router.Handle("/users/{id}", token(c.Users.DeleteUser)).Methods("DELETE")

	// Submitted product routes
	router.Handle("/products", token(c.Products.GetProducts)).Methods("GET")
	router.HandleFunc("/products", c.Products.CreateProduct).Methods("POST")
	router.HandleFunc("/products/{id}", c.Products.GetProductByID).Methods("GET")
	router.HandleFunc("/products/{id}", c.Products.UpdateProduct).Methods("PUT")
	router.HandleFunc("/products/{id}", c.Products.DeleteProduct).Methods("DELETE")
	router.Handle("/product/{email}", token(c.Products.GetProductsByEmail)).Methods("GET")

	// Published product routes
	router.HandleFunc("/allProducts", c.Published.SearchProducts).Methods("GET")
	router.HandleFunc("/allProducts", c.Published.PublishProduct).Methods("POST")
	router.Handle("/allProducts/upvote/{id}", token(c.Published.UpvoteProduct)).Methods("PATCH")
	router.HandleFunc("/allProducts/{id}", c.Published.GetProduct).Methods("GET")
	router.HandleFunc("/allProducts/{id}", c.Published.UpdateProduct).Methods("PUT")
	router.HandleFunc("/allProducts/{id}", c.Published.DeleteProduct).Methods("DELETE")

	// Featured routes
	router.HandleFunc("/featured", c.Featured.GetFeatured).Methods("GET")
	router.HandleFunc("/featured", c.Featured.AddFeatured).Methods("POST")
	router.HandleFunc("/featured/upvote/{id}", c.Featured.UpvoteFeatured).Methods("PATCH")

	// Report routes
	router.HandleFunc("/reportedProduct", c.Reports.GetReports).Methods("GET")
	router.HandleFunc("/reportedProduct", c.Reports.CreateReport).Methods("POST")
	router.HandleFunc("/reportedProduct/{id}", c.Reports.DeleteReport).Methods("DELETE")

	// Review and upvote routes
	router.HandleFunc("/productReview", c.Reviews.GetReviews).Methods("GET")
	router.HandleFunc("/productReview", c.Reviews.CreateReview).Methods("POST")
	router.HandleFunc("/upVote", c.Reviews.CreateUpvote).Methods("POST")

	// Coupon routes
	router.HandleFunc("/coupon", c.Coupons.GetCoupons).Methods("GET")
	router.HandleFunc("/coupon", c.Coupons.CreateCoupon).Methods("POST")
	router.HandleFunc("/coupon/{id}", c.Coupons.GetCoupon).Methods("GET")
	router.HandleFunc("/coupon/{id}", c.Coupons.UpdateCoupon).Methods("PUT")
	router.HandleFunc("/coupon/{id}", c.Coupons.DeleteCoupon).Methods("DELETE")

	// Payment routes
	router.HandleFunc("/create-payment-intent", c.Payments.CreatePaymentIntent).Methods("POST")
	router.Handle("/payments", token(c.Payments.CreatePayment)).Methods("POST")
}

// NewHandler builds the full HTTP handler: routes wrapped in CORS and request logging
func NewHandler(db *store.Database, gateway controllers.PaymentIntentCreator, receipts controllers.ReceiptSender, origins []string) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, NewControllers(db, gateway, receipts), db.Users)
	return middleware.LoggingMiddleware(middleware.CORSMiddleware(origins)(router))
}
