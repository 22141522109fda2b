package common

import (
	"encoding/json"
	"net/http"
)

// RespondJSON sends a JSON response. Payloads already carry the `ok` field
// expected by the client, so the body is written as-is.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondOK sends a 200 response with ok=true merged into the payload
func RespondOK(w http.ResponseWriter, data map[string]interface{}) {
	if data == nil {
		data = map[string]interface{}{}
	}
	data["ok"] = true
	RespondJSON(w, http.StatusOK, data)
}

// RespondError sends an error response in the standard envelope
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"ok":      false,
		"message": message,
	})
}
