package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/middleware"
)

// handleListRecords handles GET /registry.
// Supports page, per_page, sort ("column:direction"), search, filters (JSON
// array of {id, value}), date_from and date_to query parameters. Malformed
// values degrade to defaults instead of failing the request.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	q := domain.ParseListQuery(rawQueryFromRequest(r), s.dateFormat, s.maxPerPage)

	page, err := s.records.List(r.Context(), q)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, page)
}

// handleGetRecord handles GET /registry/{id}.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	rec, err := s.records.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleCreateRecord handles POST /registry.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeRecordInput(w, r)
	if !ok {
		return
	}
	rec, err := s.records.Create(r.Context(), middleware.UserID(r.Context()), in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, rec)
}

// handleUpdateRecord handles PUT /registry/{id}.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	in, ok := s.decodeRecordInput(w, r)
	if !ok {
		return
	}
	rec, err := s.records.Update(r.Context(), middleware.UserID(r.Context()), id, in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

// handleDeleteRecord handles DELETE /registry/{id}.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.records.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path parameter. A non-numeric id is reported as 404
// because no record can have it.
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			Error: errorDetail{Code: "not_found", Message: "resource not found"},
		})
		return 0, false
	}
	return id, true
}

// decodeRecordInput reads a RecordInput JSON body, rejecting malformed JSON
// before the service layer sees it.
func (s *Server) decodeRecordInput(w http.ResponseWriter, r *http.Request) (domain.RecordInput, bool) {
	var in domain.RecordInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.requestError(w, http.StatusBadRequest, "malformed request body")
		return domain.RecordInput{}, false
	}
	return in, true
}

// rawQueryFromRequest lifts the listing/export query parameters off the
// request untouched; parsing and allow-list checks happen in the domain.
func rawQueryFromRequest(r *http.Request) domain.RawListQuery {
	q := r.URL.Query()
	return domain.RawListQuery{
		Page:     q.Get("page"),
		PerPage:  q.Get("per_page"),
		Sort:     q.Get("sort"),
		Search:   q.Get("search"),
		Filters:  q.Get("filters"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}
}
