package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/pkordes/border-registry/backend/internal/middleware"
)

// handleUpload handles POST /registry/upload, a multipart form with one
// "csv_file" part. The part is spooled to a batch-id-named temp file before
// ingestion so a slow or broken client connection cannot stall a half-read
// batch inside the database loop, then the file is removed on every path.
// Row-level problems come back in the 200 response body; only a header
// mismatch or a storage failure fails the request as a whole.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("csv_file")
	if err != nil {
		if maxBytesExceeded(err) {
			s.requestError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		s.requestError(w, http.StatusBadRequest, "csv_file is required")
		return
	}
	defer file.Close()

	batchID := uuid.NewString()
	tmp, err := os.Create(filepath.Join(os.TempDir(), "registry-batch-"+batchID+".csv"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		if maxBytesExceeded(err) {
			s.requestError(w, http.StatusRequestEntityTooLarge, "uploaded file is too large")
			return
		}
		s.writeError(w, r, err)
		return
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.ingests.Ingest(r.Context(), tmp)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info("csv batch ingested",
		"batch_id", batchID,
		"user_id", middleware.UserID(r.Context()),
		"created", result.Created,
		"skipped", result.Skipped,
	)
	s.writeJSON(w, http.StatusOK, result)
}

// maxBytesExceeded reports whether err came from the http.MaxBytesReader
// wrapped around the request body.
func maxBytesExceeded(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
