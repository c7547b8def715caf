package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/metrics"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// cellPlaceholder is written for missing or null values so every exported
// row carries the full column count for downstream tools.
const cellPlaceholder = "N/A"

// ExportFile is a rendered export ready to be sent as a download.
type ExportFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// KeyIndicator is one "key indicators" card rendered at the top of a PDF
// report.
type KeyIndicator struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

// ExportOptions carries the optional PDF decorations.
type ExportOptions struct {
	// CustomText is a free-text block rendered before the table.
	CustomText string
	// Cards are rendered as a key-indicators list before the table.
	Cards []KeyIndicator
}

// ExportService renders the full filtered record set as CSV or a tabular
// PDF. Both formats are fed by the same query path as the interactive
// listing (repo.ListAll), so an export always contains exactly the rows the
// listing pages would show, in the same order.
type ExportService struct {
	records repo.RecordRepo
	format  domain.DateFormat
	metrics *metrics.Metrics
}

// NewExportService constructs an ExportService. m may be nil in tests.
func NewExportService(records repo.RecordRepo, format domain.DateFormat, m *metrics.Metrics) *ExportService {
	return &ExportService{records: records, format: format, metrics: m}
}

// Export renders every record matching q with the selected columns.
// Unknown or non-exportable column names fail with domain.ErrBadColumn:
// silently dropping a requested column would corrupt the report.
// format must be "csv" or "pdf".
func (s *ExportService) Export(ctx context.Context, q domain.ListQuery, columns []string, format string, opts ExportOptions) (ExportFile, error) {
	cols, err := domain.ExportColumns(columns)
	if err != nil {
		return ExportFile{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	if format != "csv" && format != "pdf" {
		return ExportFile{}, fmt.Errorf("service.ExportService.Export: %w",
			domain.FieldErrors{"format": "must be csv or pdf"})
	}

	records, err := s.records.ListAll(ctx, q)
	if err != nil {
		return ExportFile{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	var file ExportFile
	if format == "csv" {
		file, err = s.renderCSV(cols, records)
	} else {
		file, err = s.renderPDF(cols, records, opts)
	}
	if err != nil {
		return ExportFile{}, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	if s.metrics != nil {
		s.metrics.ObserveExport(format)
	}
	return file, nil
}

func (s *ExportService) renderCSV(cols []domain.Column, records []domain.Record) (ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Label
	}
	if err := w.Write(header); err != nil {
		return ExportFile{}, err
	}

	row := make([]string, len(cols))
	for _, rec := range records {
		for i, c := range cols {
			row[i] = s.cellValue(rec, c)
		}
		if err := w.Write(row); err != nil {
			return ExportFile{}, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		Name:        "report.csv",
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}

func (s *ExportService) renderPDF(cols []domain.Column, records []domain.Record, opts ExportOptions) (ExportFile, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Report", "", 1, "C", false, 0, "")

	if opts.CustomText != "" {
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, opts.CustomText, "", "L", false)
		pdf.Ln(2)
	}

	if len(opts.Cards) > 0 {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Key Indicators", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		for _, card := range opts.Cards {
			pdf.CellFormat(0, 6, fmt.Sprintf("%s: %s", card.Title, card.Value), "1", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(cols))

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(242, 242, 242)
	for _, c := range cols {
		pdf.CellFormat(colW, 7, c.Label, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for _, rec := range records {
		for _, c := range cols {
			pdf.CellFormat(colW, 6, s.cellValue(rec, c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return ExportFile{}, err
	}

	return ExportFile{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

// cellValue renders one column of one record. Dates use the deployment's
// configured format; null and empty values become the placeholder.
func (s *ExportService) cellValue(rec domain.Record, c domain.Column) string {
	var v string
	switch c.Name {
	case "surname":
		v = rec.Surname
	case "given_name":
		v = rec.GivenName
	case "nationality":
		v = rec.Nationality
	case "country_of_residence":
		v = rec.CountryOfResidence
	case "national_id_number":
		if rec.NationalIDNumber != nil {
			v = strconv.FormatInt(*rec.NationalIDNumber, 10)
		}
	case "document_type":
		v = rec.DocumentType
	case "document_no":
		v = rec.DocumentNo
	case "dob":
		v = s.format.Format(rec.DOB)
	case "age":
		v = strconv.Itoa(rec.Age)
	case "sex":
		v = rec.Sex
	case "travel_date":
		v = s.format.Format(rec.TravelDate)
	case "direction":
		v = rec.Direction
	case "accommodation_address":
		v = rec.AccommodationAddress
	case "note":
		v = rec.Note
	case "travel_reason":
		v = rec.TravelReason
	case "border_post":
		v = rec.BorderPost
	case "destination_coming_from":
		v = rec.DestinationComingFrom
	}
	if v == "" {
		return cellPlaceholder
	}
	return v
}
