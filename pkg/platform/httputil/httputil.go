// Package httputil holds the JSON envelope helpers shared by every handler so
// error translation happens in exactly one place.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "govintel/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; prediction payloads are a few hundred bytes.
const maxBodyBytes = 1 << 20

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Internal errors never expose their description.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeInternal
	description := ""
	if de, ok := dErrors.As(err); ok {
		code = de.Code
		description = de.Message
	}

	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal && code != dErrors.CodeAuditWrite && description != "" {
		body["error_description"] = description
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), body)
}

// DecodeJSON decodes the request body into T. Field validation is left to the
// service so that rejected calls are still audited. On malformed JSON it writes
// a bad_request response and returns false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid json payload"))
		return nil, false
	}
	return &req, true
}
