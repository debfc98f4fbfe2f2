package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huemanatee/internal/hue"
)

// Error is the JSON body of every non-2xx response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error codes.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeNotFound       = "not_found"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeBadGateway     = "bad_gateway"
	ErrCodeInternal       = "internal_error"
	ErrCodeMethodNotAllow = "method_not_allowed"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // client may have gone away
		json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeHueError maps a client error onto an HTTP status.
// ErrUnauthorized is checked before ErrBridgeProtocol since a rejected
// username is both.
func writeHueError(w http.ResponseWriter, r *http.Request, err error) {
	var protoErr *hue.BridgeProtocolError

	switch {
	case errors.Is(err, hue.ErrInvalidRequest):
		writeBadRequest(w, err.Error())
	case errors.Is(err, hue.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.As(err, &protoErr) && resourceMissing(protoErr):
		writeNotFound(w, err.Error())
	default:
		log.Error().Err(err).
			Str("path", r.URL.Path).
			Str("request_id", RequestID(r.Context())).
			Msg("Bridge call failed")
		writeError(w, http.StatusBadGateway, ErrCodeBadGateway, err.Error())
	}
}

func resourceMissing(e *hue.BridgeProtocolError) bool {
	for _, be := range e.Errors {
		if be.Type == hue.ErrorTypeResourceUnavailable {
			return true
		}
	}
	return false
}

// decodeBody decodes a JSON request body, rejecting unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
