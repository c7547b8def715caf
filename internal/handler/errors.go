package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// errorResponse is the JSON error envelope every endpoint shares.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeJSON marshals v and writes it with the given status. Encoding failures
// at this point can only come from unmarshalable values, which is a
// programming error, so they are swallowed after the header is out.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response", "error", err)
	}
}

// writeError maps a service error onto the HTTP response.
//
// Field-level validation and duplicate errors become 422 with a fields map so
// the UI can mark individual inputs. ErrSchemaMismatch and ErrBadColumn are
// whole-request failures that also carry a caller-fixable cause, so they are
// 422 too. Anything unrecognized is logged and reported as a generic 500 —
// internals never leak to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var fe domain.FieldErrors
	switch {
	case errors.As(err, &fe):
		code := "validation_error"
		if errors.Is(err, domain.ErrDuplicate) {
			code = "duplicate"
		}
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: code, Message: "validation failed", Fields: fe},
		})
	case errors.Is(err, domain.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: "resource not found"},
		})
	case errors.Is(err, domain.ErrSchemaMismatch):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "schema_mismatch", Message: "csv header does not match the expected columns"},
		})
	case errors.Is(err, domain.ErrBadColumn):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "bad_column", Message: "unknown or non-exportable column requested"},
		})
	case errors.Is(err, domain.ErrValidation):
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: errorDetail{Code: "validation_error", Message: err.Error()},
		})
	default:
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error: errorDetail{Code: "internal", Message: "internal server error"},
		})
	}
}

// requestError rejects a request before it reaches the service layer, e.g. a
// malformed body or path parameter.
func (s *Server) requestError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{
		Error: errorDetail{Code: "bad_request", Message: message},
	})
}
