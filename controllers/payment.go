package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"techapps/middleware"
	"techapps/models"
	"techapps/store"
	"techapps/utils"
)

// Payment intents are always created in USD for card and link payments
const paymentCurrency = "usd"

var paymentMethodTypes = []string{"card", "link"}

// PaymentIntentCreator creates a payment intent with an external provider
// and returns the intent's client secret
type PaymentIntentCreator interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string, methods []string) (string, error)
}

// ReceiptSender emails a receipt for a stored payment
type ReceiptSender interface {
	SendPaymentReceipt(payment models.Payment) error
}

// PaymentController handles payment intents and payment records
type PaymentController struct {
	Collection store.Collection
	Gateway    PaymentIntentCreator
	// Receipts is optional
	Receipts ReceiptSender
}

// NewPaymentController creates a new PaymentController. receipts may be nil.
func NewPaymentController(db *store.Database, gateway PaymentIntentCreator, receipts ReceiptSender) *PaymentController {
	return &PaymentController{
		Collection: db.Payments,
		Gateway:    gateway,
		Receipts:   receipts,
	}
}

// CreatePaymentIntent converts the posted price to cents and returns the
// provider's client secret
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Price json.Number `json:"price"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	amount, err := utils.ToCents(body.Price.String())
	if err != nil || amount < 0 {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid price")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	clientSecret, err := pc.Gateway.CreatePaymentIntent(ctx, amount, paymentCurrency, paymentMethodTypes)
	if err != nil {
		storeFailed(w, "creating payment intent", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// CreatePayment records a completed payment
func (pc *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var payment models.Payment
	if !decodeBody(w, r, &payment) {
		return
	}
	if payment.Email == "" {
		if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
			payment.Email = claims.Email
		}
	}
	if payment.Currency == "" {
		payment.Currency = paymentCurrency
	}
	payment.Currency = strings.ToLower(payment.Currency)
	if payment.Date.IsZero() {
		payment.Date = time.Now().UTC()
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	result, err := pc.Collection.InsertOne(ctx, payment)
	if err != nil {
		storeFailed(w, "recording payment", err)
		return
	}

	if pc.Receipts != nil && payment.Email != "" {
		go func(p models.Payment) {
			if err := pc.Receipts.SendPaymentReceipt(p); err != nil {
				log.Printf("Failed to send receipt to %s: %v", p.Email, err)
			}
		}(payment)
	}

	utils.WriteJSON(w, http.StatusOK, result)
}
