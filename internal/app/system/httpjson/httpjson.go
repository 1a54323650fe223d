// Package httpjson writes JSON response bodies and the error envelope.
package httpjson

import (
	"encoding/json"
	"net/http"
)

// Envelope is the JSON body every failed request returns.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Write encodes v with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error sends the error envelope.
func Error(w http.ResponseWriter, status int, msg string) {
	Write(w, status, Envelope{Status: status, Message: msg})
}
