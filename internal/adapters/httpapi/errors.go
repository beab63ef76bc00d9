package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

func writeValidationError(w http.ResponseWriter, message string, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": message,
		"errors":  fields,
	})
}

// writeAppError maps application-layer errors onto the wire contract.
// Anything unrecognized is logged with the request id and surfaced as a
// bare 500 so internals never leak to the caller.
func writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *auth.Error
	if errors.As(err, &ae) {
		writeStatusError(w, ae.Status, ae.Message, ae.Fields)
		return
	}
	var te *travels.Error
	if errors.As(err, &te) {
		writeStatusError(w, te.Status, te.Message, te.Fields)
		return
	}

	log.Printf("request %s: unexpected error: %v", middleware.GetReqID(r.Context()), err)
	writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
}

func writeStatusError(w http.ResponseWriter, status int, message string, fields map[string][]string) {
	if len(fields) > 0 {
		writeJSON(w, status, map[string]any{"message": message, "errors": fields})
		return
	}
	writeMessage(w, status, message)
}

// badJSONBody is the 422 answer for a request body that does not decode.
func badJSONBody(w http.ResponseWriter) {
	writeValidationError(w, "Validation error.", map[string][]string{
		"body": {"The request body must be valid JSON."},
	})
}
