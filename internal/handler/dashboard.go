package handler

import "net/http"

// handleDashboard handles GET /dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.stats.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}
