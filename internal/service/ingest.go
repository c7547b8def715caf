package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/metrics"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// CSVHeader is the exact ordered header row an uploaded registry CSV must
// carry. A file whose header omits, renames, or reorders any column is
// rejected before a single row is processed.
var CSVHeader = []string{
	"surname", "given_name", "nationality", "country_of_residence",
	"national_id_number", "document_type", "document_no", "dob", "age",
	"sex", "travel_date", "direction", "accommodation_address", "note",
	"travel_reason", "border_post", "destination_coming_from",
}

// IngestService runs the CSV bulk-ingestion pipeline: stream rows, validate
// each independently, skip duplicates and invalid rows without aborting the
// batch, and report per-batch counts.
type IngestService struct {
	records   repo.RecordRepo
	validator *RecordValidator
	metrics   *metrics.Metrics
}

// NewIngestService constructs an IngestService. m may be nil in tests.
func NewIngestService(records repo.RecordRepo, v *RecordValidator, m *metrics.Metrics) *IngestService {
	return &IngestService{records: records, validator: v, metrics: m}
}

// Ingest processes one uploaded CSV. The caller owns the underlying file and
// its cleanup; Ingest only reads.
//
// Rows are streamed one at a time, so peak memory is bounded regardless of
// file size. Each row is validated, dedup-checked, and inserted before the
// next row is read. That ordering is what catches duplicates *within* the
// same file: by the time row N is checked, rows 1..N-1 are already in the
// store. The insert itself converts a uniqueness violation into a skip, which
// also covers two concurrent uploads racing on the same document number.
//
// The only batch-fatal conditions are a header mismatch
// (domain.ErrSchemaMismatch) and an unreadable file or failed store write;
// everything else is a per-row skip.
func (s *IngestService) Ingest(ctx context.Context, r io.Reader) (domain.BatchResult, error) {
	cr := csv.NewReader(r)

	header, err := cr.Read()
	if err != nil {
		return domain.BatchResult{}, fmt.Errorf("service.IngestService.Ingest: read header: %w", err)
	}
	if err := checkHeader(header); err != nil {
		return domain.BatchResult{}, err
	}

	// Header-name-keyed mapping, built once per file. Positions come from the
	// header itself rather than hard-coded indexes, so a future optional
	// column cannot silently shift data into the wrong field.
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[normalizeHeaderCell(name)] = i
	}

	var result domain.BatchResult
	line := 1 // header line
	for {
		line++
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			// Malformed row (wrong column count, broken quoting): skip it,
			// the reader recovers on the next record.
			result.AddSkip(line, "", "malformed row: "+parseErr.Err.Error())
			continue
		}
		if err != nil {
			return result, fmt.Errorf("service.IngestService.Ingest: read row: %w", err)
		}

		if isBlankRow(row) {
			continue
		}

		rec, err := s.validator.Validate(ctx, inputFromRow(row, colIdx), 0)
		if err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				result.AddSkip(line, duplicateField(err), "duplicate")
				continue
			}
			var fe domain.FieldErrors
			if errors.As(err, &fe) {
				result.AddSkip(line, "", strings.TrimPrefix(fe.Error(), "validation error: "))
				continue
			}
			return result, fmt.Errorf("service.IngestService.Ingest: line %d: %w", line, err)
		}

		if _, err := s.records.Create(ctx, rec); err != nil {
			// The pre-check above is an optimization only. The store's
			// uniqueness constraint is the authority, and losing the race to
			// a concurrent writer is an expected outcome, not a failure.
			if errors.Is(err, domain.ErrDuplicate) {
				result.AddSkip(line, duplicateField(err), "duplicate")
				continue
			}
			return result, fmt.Errorf("service.IngestService.Ingest: line %d: %w", line, err)
		}
		result.Created++
	}

	if s.metrics != nil {
		s.metrics.ObserveBatch(result)
	}
	return result, nil
}

// checkHeader enforces the all-or-nothing header precondition.
func checkHeader(header []string) error {
	got := make([]string, len(header))
	for i, cell := range header {
		got[i] = normalizeHeaderCell(cell)
	}
	if len(got) != len(CSVHeader) {
		return fmt.Errorf("%w: expected %d columns, got %d",
			domain.ErrSchemaMismatch, len(CSVHeader), len(got))
	}
	for i, want := range CSVHeader {
		if got[i] != want {
			return fmt.Errorf("%w: column %d must be %q, got %q",
				domain.ErrSchemaMismatch, i+1, want, got[i])
		}
	}
	return nil
}

// normalizeHeaderCell trims whitespace and a UTF-8 BOM, which Windows
// spreadsheet exports put in front of the first header cell.
func normalizeHeaderCell(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\uFEFF"))
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// inputFromRow maps positional cells to named fields via the header index.
func inputFromRow(row []string, colIdx map[string]int) domain.RecordInput {
	cell := func(name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}
	return domain.RecordInput{
		Surname:               cell("surname"),
		GivenName:             cell("given_name"),
		Nationality:           cell("nationality"),
		CountryOfResidence:    cell("country_of_residence"),
		NationalIDNumber:      cell("national_id_number"),
		DocumentType:          cell("document_type"),
		DocumentNo:            cell("document_no"),
		DOB:                   cell("dob"),
		Age:                   cell("age"),
		Sex:                   cell("sex"),
		TravelDate:            cell("travel_date"),
		Direction:             cell("direction"),
		AccommodationAddress:  cell("accommodation_address"),
		Note:                  cell("note"),
		TravelReason:          cell("travel_reason"),
		BorderPost:            cell("border_post"),
		DestinationComingFrom: cell("destination_coming_from"),
	}
}

// duplicateField names the column a duplicate error is about, when the error
// carries exactly one field.
func duplicateField(err error) string {
	var fe domain.FieldErrors
	if errors.As(err, &fe) && len(fe) == 1 {
		for f := range fe {
			return f
		}
	}
	return "document_no"
}
