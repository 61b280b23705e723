package api

import (
	"encoding/json"
	"net/http"

	"github.com/mockstack/mockstack/lib/logger"
)

// respondJSON writes v as a JSON response with the given status.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.FromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

// respondDetail writes the API's detail envelope, used for every error and
// for the plain acknowledgement bodies.
func respondDetail(w http.ResponseWriter, r *http.Request, status int, detail string) {
	respondJSON(w, r, status, map[string]string{"detail": detail})
}

// respondInternalError logs err and answers with a generic 500.
func respondInternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	logger.FromContext(r.Context()).Error(msg, "error", err)
	respondDetail(w, r, http.StatusInternalServerError, "Internal server error")
}
