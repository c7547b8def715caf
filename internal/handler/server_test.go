package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/handler"
	"github.com/pkordes/border-registry/backend/internal/middleware"
)

// testUserID is the user every stubAuth-authenticated request runs as.
const testUserID = "officer-1"

// allPermissions grants every gated route; individual tests narrow this to
// exercise the 403 paths.
var allPermissions = []string{
	handler.PermUpload,
	handler.PermExport,
	handler.PermManageReports,
	handler.PermManageAudits,
}

// stubAuth replaces the JWT middleware with one that injects a fixed user,
// the same way main.go's real middleware would after verifying a token.
func stubAuth(permissions []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithUser(r.Context(), testUserID, permissions)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// newTestHandler wires a Server from the given mocks the same way main.go
// wires the real services.
func newTestHandler(d handler.Deps, permissions []string) http.Handler {
	if d.DateFormat == "" {
		d.DateFormat = domain.DateFormatISO
	}
	if d.MaxPerPage == 0 {
		d.MaxPerPage = 50
	}
	if d.MaxUploadBytes == 0 {
		d.MaxUploadBytes = 1 << 20
	}
	return handler.NewServer(d).Routes(stubAuth(permissions))
}

func recordFixture() domain.Record {
	nid := int64(199001011234)
	return domain.Record{
		ID:                    7,
		Surname:               "Dlamini",
		GivenName:             "Sipho",
		Nationality:           "Eswatini",
		CountryOfResidence:    "Eswatini",
		NationalIDNumber:      &nid,
		DocumentType:          "Passport",
		DocumentNo:            "P0012345",
		DOB:                   time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Age:                   35,
		Sex:                   "M",
		TravelDate:            time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Direction:             "Departure",
		AccommodationAddress:  "12 Main St, Manzini",
		TravelReason:          "Work",
		BorderPost:            "Ngwenya",
		DestinationComingFrom: "South Africa",
		CreatedAt:             time.Now().UTC(),
		UpdatedAt:             time.Now().UTC(),
	}
}

func recordInputFixture() domain.RecordInput {
	return domain.RecordInput{
		Surname:               "Dlamini",
		GivenName:             "Sipho",
		Nationality:           "Eswatini",
		CountryOfResidence:    "Eswatini",
		NationalIDNumber:      "199001011234",
		DocumentType:          "Passport",
		DocumentNo:            "P0012345",
		DOB:                   "1990-01-01",
		Age:                   "35",
		Sex:                   "M",
		TravelDate:            "2025-06-01",
		Direction:             "Departure",
		AccommodationAddress:  "12 Main St, Manzini",
		TravelReason:          "Work",
		BorderPost:            "Ngwenya",
		DestinationComingFrom: "South Africa",
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func doRequest(t *testing.T, h http.Handler, method, target string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
