package server

import (
	"encoding/json"
	"net/http"

	"github.com/schemline/schemline/pkg/errors"
)

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP status codes. Malformed input is a 400,
// a well-formed but unsolvable document is a 422, everything else a 500.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidAxis,
		errors.ErrCodeInvalidNode, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeIncompatibleConstraint, errors.ErrCodeUnderdetermined:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "id", requestIDFrom(r), "error", err)
	} else {
		s.logger.Debug("request rejected", "id", requestIDFrom(r), "error", err)
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  string(code),
	})
}
