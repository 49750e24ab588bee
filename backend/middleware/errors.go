// ABOUTME: JSON error response helper for middleware
// ABOUTME: Writes the same error envelope as the API handlers

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/pelikan-io/capacity-calculator/backend/models"
)

// writeJSONError writes a models.ErrorResponse with the given status code.
func writeJSONError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{Error: message, Code: code})
}
