package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into dst and writes a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			response.BadRequest(w, "Request body is required", nil)
			return false
		}
		slog.Debug("Request decode error", "path", r.URL.Path, "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// queryParam returns nil when the parameter is absent or blank.
func queryParam(r *http.Request, key string) *string {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	return &v
}
