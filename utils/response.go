package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"techapps/models"
)

// WriteJSON encodes data as the JSON response body with the given status
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// WriteMessage writes a {"message": msg} body with the given status
func WriteMessage(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, models.Message{Message: msg})
}
