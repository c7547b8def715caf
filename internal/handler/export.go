package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/service"
)

// handleExport handles GET /registry/export.
//
// It accepts the same filter parameters as GET /registry plus:
//
//	format          — "csv" or "pdf" (default csv)
//	selectedColumns — comma-separated column names; omitted means every
//	                  exportable column
//	custom_text     — free text printed above the PDF table
//	cards           — JSON array of {title, value} key-indicator cards for
//	                  the PDF
//
// The filter parameters go through the same ParseListQuery as the listing
// endpoint, so an export always covers exactly the rows the listing shows.
// Unknown or non-exportable columns fail the whole request; a partial export
// would silently misreport the registry.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := domain.ParseListQuery(rawQueryFromRequest(r), s.dateFormat, s.maxPerPage)

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	columns := splitColumns(r.URL.Query().Get("selectedColumns"))
	if columns == nil {
		for _, c := range domain.Columns {
			if c.Exportable {
				columns = append(columns, c.Name)
			}
		}
	}

	opts := service.ExportOptions{CustomText: r.URL.Query().Get("custom_text")}
	if raw := r.URL.Query().Get("cards"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &opts.Cards); err != nil {
			s.requestError(w, http.StatusBadRequest, "cards must be a JSON array of {title, value}")
			return
		}
	}

	file, err := s.exports.Export(r.Context(), q, columns, format, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Data); err != nil {
		s.log.Error("writing export body", "error", err)
	}
}

// splitColumns parses the comma-separated selectedColumns value, returning
// nil when the parameter is absent or blank.
func splitColumns(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(raw, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}
