package utils

import (
	"encoding/json"
	"net/http"
)

// JSONResponse writes v as the response body with the given status.
func JSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes the `{"error": ...}` body used for 4xx/5xx results.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, map[string]string{"error": msg})
}

// JSONDetail writes the `{"detail": ...}` body used by auth failures.
func JSONDetail(w http.ResponseWriter, status int, msg string) {
	JSONResponse(w, status, map[string]string{"detail": msg})
}
