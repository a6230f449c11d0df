// Package respond writes the API's JSON responses: cached payloads with
// ETag validation for the standings endpoint, plain objects for health
// checks and import results, and a uniform error envelope.
package respond

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// APIError is the body of every non-2xx response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse wraps an APIError under an "error" key.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// WriteJSON writes pre-marshaled JSON with ETag and cache headers. The
// cacheHit flag only affects the X-Cache debugging header.
func WriteJSON(w http.ResponseWriter, data []byte, etag string, ttl time.Duration, cacheHit bool) {
	maxAge := int(ttl.Seconds())
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("ETag", etag)
	h.Set("Vary", "Accept-Encoding")
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d", maxAge, maxAge/2))
	if cacheHit {
		h.Set("X-Cache", "HIT")
	} else {
		h.Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// WriteNotModified answers a conditional request whose ETag still matches.
func WriteNotModified(w http.ResponseWriter, etag string) {
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusNotModified)
}

// WriteError sends the error envelope with the given code and message.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, APIError{Code: code, Message: message})
}

// WriteErrorDetail is WriteError with a detail line, typically the
// underlying error text.
func WriteErrorDetail(w http.ResponseWriter, status int, code, message, detail string) {
	writeError(w, status, APIError{Code: code, Message: message, Detail: detail})
}

func writeError(w http.ResponseWriter, status int, e APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: e})
}

// WriteJSONObject marshals v and writes it uncached. Import results and
// health checks go through here.
func WriteJSONObject(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
