package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"techapps/middleware"
	"techapps/store"
	"techapps/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// storeTimeout bounds every store call made by a handler
const storeTimeout = 5 * time.Second

func storeContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), storeTimeout)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeSubmitted decodes the body into v and returns a filter matching the
// document as submitted: only the fields present in the body, with v's typed values.
// Server-maintained fields the client did not send (counters, flags) stay out of it.
func decodeSubmitted(w http.ResponseWriter, r *http.Request, v interface{}) (bson.M, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	var submitted map[string]json.RawMessage
	if json.Unmarshal(body, &submitted) != nil || json.Unmarshal(body, v) != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	typed, err := toBSON(v)
	if err != nil {
		storeFailed(w, "building filter", err)
		return nil, false
	}
	filter := bson.M{}
	for key := range submitted {
		if value, ok := typed[key]; ok {
			filter[key] = value
		}
	}
	return filter, true
}

func toBSON(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	doc := bson.M{}
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// requireOwnEmail writes 403 unless the {email} path variable is the caller's
// token email
func requireOwnEmail(w http.ResponseWriter, r *http.Request) (string, bool) {
	email := mux.Vars(r)["email"]
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Email != email {
		utils.WriteMessage(w, http.StatusForbidden, middleware.ForbiddenMessage)
		return "", false
	}
	return email, true
}

// decodeFields decodes a partial JSON document for use in $set, dropping the id
func decodeFields(w http.ResponseWriter, r *http.Request) (bson.M, bool) {
	var fields map[string]interface{}
	if !decodeBody(w, r, &fields) {
		return nil, false
	}
	delete(fields, "_id")
	if len(fields) == 0 {
		utils.WriteMessage(w, http.StatusBadRequest, "no fields to update")
		return nil, false
	}
	return bson.M(fields), true
}

// objectIDParam parses the {id} path variable as an ObjectID
func objectIDParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		utils.WriteMessage(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// stringIDParam returns the {id} path variable as a raw string id
func stringIDParam(r *http.Request) string {
	return mux.Vars(r)["id"]
}

// newStringID generates an id for raw-string-keyed collections
func newStringID() string {
	return primitive.NewObjectID().Hex()
}

func storeFailed(w http.ResponseWriter, op string, err error) {
	log.Printf("%s failed: %v", op, err)
	utils.WriteMessage(w, http.StatusInternalServerError, op+" failed")
}

// writeFindOne writes the decoded document, or null when nothing matched
func writeFindOne(w http.ResponseWriter, op string, err error, doc interface{}) {
	if errors.Is(err, store.ErrNotFound) {
		utils.WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		storeFailed(w, op, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, doc)
}
