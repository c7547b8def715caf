package handler

import (
	"encoding/json"
	"net/http"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/middleware"
)

// handleListReports handles GET /reports. Results are always scoped to the
// authenticated user; there is no way to list another user's configurations.
func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	configs, err := s.reports.ListByUser(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, configs)
}

// handleSaveReport handles POST /reports.
func (s *Server) handleSaveReport(w http.ResponseWriter, r *http.Request) {
	var rc domain.ReportConfig
	if err := json.NewDecoder(r.Body).Decode(&rc); err != nil {
		s.requestError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	saved, err := s.reports.Save(r.Context(), middleware.UserID(r.Context()), rc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, saved)
}

// handleDeleteReport handles DELETE /reports/{id}. Deleting a configuration
// owned by another user reports not found rather than forbidden, so report
// ids cannot be probed.
func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}
	if err := s.reports.Delete(r.Context(), middleware.UserID(r.Context()), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
