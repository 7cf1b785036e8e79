package api

import (
	"encoding/json"
	"net/http"
)

// Response is the standard API response envelope. Handler packages
// write it with local helpers; the router fallbacks use JSONError.
type Response struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// JSONError writes a JSON error response.
func JSONError(w http.ResponseWriter, err *Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)

	json.NewEncoder(w).Encode(Response{Error: err})
}
