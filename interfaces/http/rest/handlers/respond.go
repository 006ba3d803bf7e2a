package handlers

import (
	"encoding/json"
	"net/http"

	"clipshelf/pkg/errors"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

// respondAppError maps the error taxonomy onto HTTP status codes.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsValidation(err):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.IsNotFound(err):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.IsConflict(err):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
