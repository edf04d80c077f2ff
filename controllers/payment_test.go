package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"techapps/models"
	"techapps/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeGateway struct {
	amount   int64
	currency string
	methods  []string
	calls    int
	err      error
}

func (g *fakeGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string, methods []string) (string, error) {
	g.calls++
	g.amount, g.currency, g.methods = amount, currency, methods
	if g.err != nil {
		return "", g.err
	}
	return "pi_test_secret", nil
}

type fakeReceipts struct {
	sent chan models.Payment
}

func (f *fakeReceipts) SendPaymentReceipt(p models.Payment) error {
	f.sent <- p
	return nil
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	return httptest.NewRequest(method, path, &buf)
}

func TestCreatePaymentIntent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int64
	}{
		{"decimal price", `{"price": 19.99}`, 1999},
		{"whole price", `{"price": 25}`, 2500},
		{"string price", `{"price": "4.5"}`, 450},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			pc := NewPaymentController(store.NewMemoryDatabase(), gateway, nil)

			req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			pc.CreatePaymentIntent(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, gateway.amount)
			assert.Equal(t, "usd", gateway.currency)
			assert.Equal(t, []string{"card", "link"}, gateway.methods)

			var body map[string]string
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, "pi_test_secret", body["clientSecret"])
		})
	}
}

func TestCreatePaymentIntentRejectsBadPrice(t *testing.T) {
	for _, body := range []string{`{}`, `{"price": -1}`, `{"price": "abc"}`, `not json`} {
		t.Run(body, func(t *testing.T) {
			gateway := &fakeGateway{}
			pc := NewPaymentController(store.NewMemoryDatabase(), gateway, nil)

			req := httptest.NewRequest(http.MethodPost, "/create-payment-intent", bytes.NewBufferString(body))
			rec := httptest.NewRecorder()
			pc.CreatePaymentIntent(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, gateway.calls)
		})
	}
}

func TestCreatePaymentIntentProviderFailure(t *testing.T) {
	gateway := &fakeGateway{err: errors.New("card network down")}
	pc := NewPaymentController(store.NewMemoryDatabase(), gateway, nil)

	rec := httptest.NewRecorder()
	pc.CreatePaymentIntent(rec, jsonRequest(t, http.MethodPost, "/create-payment-intent", map[string]float64{"price": 10}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreatePaymentStoresAndSendsReceipt(t *testing.T) {
	db := store.NewMemoryDatabase()
	receipts := &fakeReceipts{sent: make(chan models.Payment, 1)}
	pc := NewPaymentController(db, &fakeGateway{}, receipts)

	rec := httptest.NewRecorder()
	pc.CreatePayment(rec, jsonRequest(t, http.MethodPost, "/payments", models.Payment{
		Email:         "alice@example.com",
		Price:         19.99,
		TransactionID: "pi_123",
	}))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Payment
	require.NoError(t, db.Payments.FindOne(context.Background(), bson.M{"transaction_id": "pi_123"}, &stored))
	assert.Equal(t, "usd", stored.Currency)
	assert.False(t, stored.Date.IsZero())

	select {
	case sent := <-receipts.sent:
		assert.Equal(t, "alice@example.com", sent.Email)
	case <-time.After(time.Second):
		t.Fatal("receipt was not sent")
	}
}
