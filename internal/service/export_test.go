package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/service"
)

func exportRecords() []domain.Record {
	nid := int64(199001011234)
	return []domain.Record{
		{
			ID:                    1,
			Surname:               "Dlamini",
			GivenName:             "Sipho",
			Nationality:           "Eswatini",
			NationalIDNumber:      &nid,
			DocumentNo:            "P0000001",
			DOB:                   time.Date(1990, 1, 15, 0, 0, 0, 0, time.UTC),
			TravelDate:            time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Note:                  "frequent crosser",
			DestinationComingFrom: "South Africa",
		},
		{
			ID:         2,
			Surname:    "Nkosi",
			GivenName:  "Thandi",
			DocumentNo: "P0000002",
			DOB:        time.Date(1985, 12, 3, 0, 0, 0, 0, time.UTC),
			TravelDate: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			// NationalIDNumber and Note left empty on purpose.
		},
	}
}

func fixedRepo(records []domain.Record) *mockRecordRepo {
	return &mockRecordRepo{
		listAll: func(_ context.Context, _ domain.ListQuery) ([]domain.Record, error) {
			return records, nil
		},
	}
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestExport_CSV(t *testing.T) {
	svc := service.NewExportService(fixedRepo(exportRecords()), domain.DateFormatISO, nil)

	file, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"surname", "national_id_number", "dob", "note"}, "csv", service.ExportOptions{})

	require.NoError(t, err)
	assert.Equal(t, "report.csv", file.Name)
	assert.Equal(t, "text/csv", file.ContentType)

	rows := parseCSV(t, file.Data)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Surname", "National ID Number", "Date of Birth", "Note"}, rows[0])
	assert.Equal(t, []string{"Dlamini", "199001011234", "1990-01-15", "frequent crosser"}, rows[1])
	assert.Equal(t, []string{"Nkosi", "N/A", "1985-12-03", "N/A"}, rows[2],
		"null and empty values become the placeholder")
}

// Exported dates follow the deployment's configured format, same as input.
func TestExport_CSV_ConfiguredDateFormat(t *testing.T) {
	svc := service.NewExportService(fixedRepo(exportRecords()), domain.DateFormatSlashDMY, nil)

	file, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"dob", "travel_date"}, "csv", service.ExportOptions{})

	require.NoError(t, err)
	rows := parseCSV(t, file.Data)
	assert.Equal(t, []string{"15/01/1990", "01/06/2025"}, rows[1])
}

// Cell values containing commas, quotes, or newlines must survive a CSV
// round-trip unaltered.
func TestExport_CSV_EscapesDelimiters(t *testing.T) {
	records := exportRecords()
	records[0].Note = `crossed at "dawn", twice` + "\nsecond line"
	svc := service.NewExportService(fixedRepo(records), domain.DateFormatISO, nil)

	file, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"surname", "note"}, "csv", service.ExportOptions{})

	require.NoError(t, err)
	rows := parseCSV(t, file.Data)
	assert.Equal(t, records[0].Note, rows[1][1])
}

func TestExport_BadColumn(t *testing.T) {
	svc := service.NewExportService(fixedRepo(nil), domain.DateFormatISO, nil)

	_, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"surname", "password"}, "csv", service.ExportOptions{})

	assert.ErrorIs(t, err, domain.ErrBadColumn)
}

// "id" is listable but deliberately not exportable.
func TestExport_NonExportableColumn(t *testing.T) {
	svc := service.NewExportService(fixedRepo(nil), domain.DateFormatISO, nil)

	_, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"id"}, "csv", service.ExportOptions{})

	assert.ErrorIs(t, err, domain.ErrBadColumn)
}

func TestExport_EmptyColumnSelection(t *testing.T) {
	svc := service.NewExportService(fixedRepo(nil), domain.DateFormatISO, nil)

	_, err := svc.Export(context.Background(), domain.ListQuery{}, nil, "csv", service.ExportOptions{})

	assert.ErrorIs(t, err, domain.ErrBadColumn)
}

func TestExport_UnknownFormat(t *testing.T) {
	svc := service.NewExportService(fixedRepo(nil), domain.DateFormatISO, nil)

	_, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"surname"}, "xlsx", service.ExportOptions{})

	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	assert.Contains(t, fe, "format")
}

// The export must hand the repo the same ListQuery the listing endpoint
// would use, untouched.
func TestExport_PassesQueryThrough(t *testing.T) {
	var got domain.ListQuery
	repo := &mockRecordRepo{
		listAll: func(_ context.Context, q domain.ListQuery) ([]domain.Record, error) {
			got = q
			return nil, nil
		},
	}
	svc := service.NewExportService(repo, domain.DateFormatISO, nil)

	q := domain.ListQuery{
		Search:  "dlamini",
		Filters: []domain.ColumnFilter{{Column: "nationality", Value: "Eswatini"}},
		Sort:    domain.Sort{Column: "travel_date", Desc: true},
	}
	_, err := svc.Export(context.Background(), q, []string{"surname"}, "csv", service.ExportOptions{})

	require.NoError(t, err)
	assert.Equal(t, q, got)
}

func TestExport_PDF(t *testing.T) {
	svc := service.NewExportService(fixedRepo(exportRecords()), domain.DateFormatISO, nil)

	file, err := svc.Export(context.Background(), domain.ListQuery{},
		[]string{"surname", "given_name", "travel_date"}, "pdf", service.ExportOptions{
			CustomText: "Quarterly border crossings",
			Cards:      []service.KeyIndicator{{Title: "Total", Value: "2"}},
		})

	require.NoError(t, err)
	assert.Equal(t, "report.pdf", file.Name)
	assert.Equal(t, "application/pdf", file.ContentType)
	require.NotEmpty(t, file.Data)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")), "output must be a PDF document")
}
