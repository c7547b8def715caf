package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/handler"
)

type mockIngestServicer struct {
	ingest func(ctx context.Context, r io.Reader) (domain.BatchResult, error)
}

func (m *mockIngestServicer) Ingest(ctx context.Context, r io.Reader) (domain.BatchResult, error) {
	return m.ingest(ctx, r)
}

var _ handler.IngestServicer = (*mockIngestServicer)(nil)

// multipartCSV builds a multipart body with one csv_file part.
func multipartCSV(t *testing.T, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("csv_file", "batch.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postUpload(t *testing.T, h http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/registry/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUpload_200(t *testing.T) {
	const csvContent = "header row\nrow one\n"
	svc := &mockIngestServicer{
		ingest: func(_ context.Context, r io.Reader) (domain.BatchResult, error) {
			// The handler must hand the ingest service the full spooled file.
			b, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, csvContent, string(b))
			res := domain.BatchResult{Created: 3}
			res.AddSkip(4, "document_no", "duplicate")
			return res, nil
		},
	}
	h := newTestHandler(handler.Deps{Ingests: svc}, allPermissions)

	body, ct := multipartCSV(t, csvContent)
	rec := postUpload(t, h, body, ct)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.BatchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 3, resp.Created)
	assert.Equal(t, 1, resp.Skipped)
	require.Len(t, resp.SkipReasons, 1)
	assert.Equal(t, 4, resp.SkipReasons[0].Line)
}

func TestUpload_400_MissingFile(t *testing.T) {
	svc := &mockIngestServicer{}
	h := newTestHandler(handler.Deps{Ingests: svc}, allPermissions)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	rec := postUpload(t, h, &buf, mw.FormDataContentType())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_422_SchemaMismatch(t *testing.T) {
	svc := &mockIngestServicer{
		ingest: func(_ context.Context, _ io.Reader) (domain.BatchResult, error) {
			return domain.BatchResult{}, domain.ErrSchemaMismatch
		},
	}
	h := newTestHandler(handler.Deps{Ingests: svc}, allPermissions)

	body, ct := multipartCSV(t, "wrong,header\n")
	rec := postUpload(t, h, body, ct)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "schema_mismatch")
}

func TestUpload_403_WithoutPermission(t *testing.T) {
	svc := &mockIngestServicer{}
	h := newTestHandler(handler.Deps{Ingests: svc}, []string{handler.PermExport})

	body, ct := multipartCSV(t, "anything\n")
	rec := postUpload(t, h, body, ct)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpload_413_TooLarge(t *testing.T) {
	svc := &mockIngestServicer{}
	h := newTestHandler(handler.Deps{Ingests: svc, MaxUploadBytes: 64}, allPermissions)

	body, ct := multipartCSV(t, string(bytes.Repeat([]byte("x"), 4096)))
	rec := postUpload(t, h, body, ct)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
