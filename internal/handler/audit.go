package handler

import (
	"net/http"
	"strconv"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// handleListAudits handles GET /audits, newest entries first.
func (s *Server) handleListAudits(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	p := domain.NewPaginationParams(page, perPage, s.maxPerPage)

	entries, err := s.audits.List(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// handleClearAudits handles DELETE /audits.
func (s *Server) handleClearAudits(w http.ResponseWriter, r *http.Request) {
	if err := s.audits.Clear(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
