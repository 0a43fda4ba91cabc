package response

import (
	"encoding/json"
	"net/http"
)

// JSON writes data as a JSON response body. Game records carry their images
// inline as data URIs, so bodies can run to a couple of megabytes; the
// encoder streams straight to the wire rather than buffering.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// NoContent answers a delete or reset with 204 and no body
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
