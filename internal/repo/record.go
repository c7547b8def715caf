// Package repo contains all database access logic for the border registry
// backend. Each resource has its own file with an interface and a Postgres
// implementation. No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/border-registry/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const recordCols = `id, surname, given_name, nationality, country_of_residence,
		national_id_number, document_type, document_no, dob, age, sex,
		travel_date, direction, accommodation_address, note, travel_reason,
		border_post, destination_coming_from, created_at, updated_at`

// RecordRepo defines the persistence operations for registry records.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows services to be unit-tested with mocks.
type RecordRepo interface {
	// Create inserts a new record and returns the persisted row (with
	// DB-generated id, created_at, and updated_at populated).
	// A uniqueness violation on document_no or national_id_number is returned
	// as domain.FieldErrors wrapping domain.ErrDuplicate semantics: the
	// database constraint is the final authority, the pre-insert Exists
	// checks are only an optimization.
	Create(ctx context.Context, rec domain.Record) (domain.Record, error)

	// GetByID retrieves a single record by primary key.
	// Returns domain.ErrNotFound if no record with that ID exists.
	GetByID(ctx context.Context, id int64) (domain.Record, error)

	// Update overwrites the mutable fields of an existing record and returns
	// the updated row. Returns domain.ErrNotFound if it does not exist, and
	// maps uniqueness violations the same way Create does.
	Update(ctx context.Context, rec domain.Record) (domain.Record, error)

	// Delete removes a record by ID. Returns domain.ErrNotFound if it does
	// not exist.
	Delete(ctx context.Context, id int64) error

	// List returns one page of records matching q plus the total match count.
	List(ctx context.Context, q domain.ListQuery) ([]domain.Record, int64, error)

	// ListAll returns every record matching q in the same order List would
	// return them, unpaginated. The export endpoint calls this so that its
	// result is exactly the concatenation of all listing pages.
	ListAll(ctx context.Context, q domain.ListQuery) ([]domain.Record, error)

	// ExistsByDocumentNo reports whether any record carries the document
	// number. Index-backed; used by validation and the ingestion dedup check.
	ExistsByDocumentNo(ctx context.Context, documentNo string) (bool, error)

	// ExistsByNationalID reports whether any record carries the national ID.
	ExistsByNationalID(ctx context.Context, nationalID int64) (bool, error)
}

// pgRecordRepo is the Postgres implementation of RecordRepo.
// dateScope decides which date columns the date_from/date_to range applies
// to; it is fixed at construction from deployment configuration.
type pgRecordRepo struct {
	db        db
	dateScope domain.DateRangeScope
}

// NewRecordRepo constructs a RecordRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback
// isolation.
func NewRecordRepo(db db, dateScope domain.DateRangeScope) RecordRepo {
	return &pgRecordRepo{db: db, dateScope: dateScope}
}

func (r *pgRecordRepo) Create(ctx context.Context, rec domain.Record) (domain.Record, error) {
	const q = `
		INSERT INTO registry (surname, given_name, nationality,
			country_of_residence, national_id_number, document_type,
			document_no, dob, age, sex, travel_date, direction,
			accommodation_address, note, travel_reason, border_post,
			destination_coming_from)
		VALUES (@surname, @given_name, @nationality, @country_of_residence,
			@national_id_number, @document_type, @document_no, @dob, @age,
			@sex, @travel_date, @direction, @accommodation_address, @note,
			@travel_reason, @border_post, @destination_coming_from)
		RETURNING ` + recordCols

	row := r.db.QueryRow(ctx, q, recordArgs(rec))
	result, err := scanRecord(row)
	if err != nil {
		if dup, ok := mapUniqueViolation(err); ok {
			return domain.Record{}, dup
		}
		return domain.Record{}, fmt.Errorf("repo.RecordRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) GetByID(ctx context.Context, id int64) (domain.Record, error) {
	const q = `SELECT ` + recordCols + ` FROM registry WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanRecord(row)
	if err != nil {
		return domain.Record{}, fmt.Errorf("repo.RecordRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) Update(ctx context.Context, rec domain.Record) (domain.Record, error) {
	const q = `
		UPDATE registry
		SET surname                 = @surname,
		    given_name              = @given_name,
		    nationality             = @nationality,
		    country_of_residence    = @country_of_residence,
		    national_id_number      = @national_id_number,
		    document_type           = @document_type,
		    document_no             = @document_no,
		    dob                     = @dob,
		    age                     = @age,
		    sex                     = @sex,
		    travel_date             = @travel_date,
		    direction               = @direction,
		    accommodation_address   = @accommodation_address,
		    note                    = @note,
		    travel_reason           = @travel_reason,
		    border_post             = @border_post,
		    destination_coming_from = @destination_coming_from,
		    updated_at              = now()
		WHERE id = @id
		RETURNING ` + recordCols

	args := recordArgs(rec)
	args["id"] = rec.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanRecord(row)
	if err != nil {
		if dup, ok := mapUniqueViolation(err); ok {
			return domain.Record{}, dup
		}
		return domain.Record{}, fmt.Errorf("repo.RecordRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgRecordRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM registry WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.RecordRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgRecordRepo) List(ctx context.Context, q domain.ListQuery) ([]domain.Record, int64, error) {
	where, args := r.buildWhere(q)

	var total int64
	countSQL := `SELECT count(*) FROM registry` + where
	if err := r.db.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.List: count: %w", err)
	}

	sql := `SELECT ` + recordCols + ` FROM registry` + where + orderBy(q.Sort) +
		fmt.Sprintf(" LIMIT %d OFFSET %d", q.Page.PerPage, q.Page.Offset())

	records, err := r.queryRecords(ctx, sql, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.RecordRepo.List: %w", err)
	}
	return records, total, nil
}

func (r *pgRecordRepo) ListAll(ctx context.Context, q domain.ListQuery) ([]domain.Record, error) {
	where, args := r.buildWhere(q)

	sql := `SELECT ` + recordCols + ` FROM registry` + where + orderBy(q.Sort)

	records, err := r.queryRecords(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("repo.RecordRepo.ListAll: %w", err)
	}
	return records, nil
}

func (r *pgRecordRepo) ExistsByDocumentNo(ctx context.Context, documentNo string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM registry WHERE document_no = @document_no)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"document_no": documentNo}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.RecordRepo.ExistsByDocumentNo: %w", err)
	}
	return exists, nil
}

func (r *pgRecordRepo) ExistsByNationalID(ctx context.Context, nationalID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM registry WHERE national_id_number = @national_id_number)`

	var exists bool
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"national_id_number": nationalID}).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.RecordRepo.ExistsByNationalID: %w", err)
	}
	return exists, nil
}

// --- dynamic query construction ---------------------------------------------
//
// Column names in a ListQuery have already been resolved against the
// domain.Columns allow-list by ParseListQuery, so interpolating them as SQL
// identifiers is safe. Every caller-supplied VALUE still travels as a
// positional argument.

// buildWhere renders the WHERE clause for q and returns it (with a leading
// " WHERE", or empty when q has no conditions) plus the argument list.
func (r *pgRecordRepo) buildWhere(q domain.ListQuery) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if q.Search != "" {
		p := arg(q.Search)
		var ors []string
		for _, c := range domain.SearchableColumns() {
			ors = append(ors, fmt.Sprintf("%s::text ILIKE '%%' || %s || '%%'", c.Name, p))
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	for _, f := range q.Filters {
		p := arg(f.Value)
		conds = append(conds, fmt.Sprintf("%s::text ILIKE '%%' || %s || '%%'", f.Column, p))
	}

	if q.DateFrom != nil || q.DateTo != nil {
		cols := []string{"dob", "travel_date"}
		if r.dateScope == domain.DateRangeTravelDate {
			cols = []string{"travel_date"}
		}
		var ors []string
		for _, col := range cols {
			var bounds []string
			if q.DateFrom != nil {
				bounds = append(bounds, fmt.Sprintf("%s >= %s", col, arg(*q.DateFrom)))
			}
			if q.DateTo != nil {
				bounds = append(bounds, fmt.Sprintf("%s <= %s", col, arg(*q.DateTo)))
			}
			ors = append(ors, "("+strings.Join(bounds, " AND ")+")")
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderBy renders the ORDER BY clause for s. A secondary id tiebreak keeps
// pagination deterministic when the sort column has duplicate values, which
// the export/listing parity guarantee depends on.
func orderBy(s domain.Sort) string {
	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}
	if s.Column == "" || s.Column == "id" {
		return fmt.Sprintf(" ORDER BY id %s", dir)
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", s.Column, dir)
}

func (r *pgRecordRepo) queryRecords(ctx context.Context, sql string, args []any) ([]domain.Record, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return records, nil
}

// --- row mapping -------------------------------------------------------------

func recordArgs(rec domain.Record) pgx.NamedArgs {
	return pgx.NamedArgs{
		"surname":                 rec.Surname,
		"given_name":              rec.GivenName,
		"nationality":             rec.Nationality,
		"country_of_residence":    rec.CountryOfResidence,
		"national_id_number":      rec.NationalIDNumber, // nil becomes NULL
		"document_type":           rec.DocumentType,
		"document_no":             rec.DocumentNo,
		"dob":                     rec.DOB,
		"age":                     rec.Age,
		"sex":                     rec.Sex,
		"travel_date":             rec.TravelDate,
		"direction":               rec.Direction,
		"accommodation_address":   rec.AccommodationAddress,
		"note":                    rec.Note,
		"travel_reason":           rec.TravelReason,
		"border_post":             rec.BorderPost,
		"destination_coming_from": rec.DestinationComingFrom,
	}
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanRecord to
// be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord maps a single database row into a domain.Record.
// It handles the nullable national_id_number and the date conversions.
func scanRecord(s scanner) (domain.Record, error) {
	var (
		rec        domain.Record
		nationalID pgtype.Int8
		dob        pgtype.Date
		travelDate pgtype.Date
	)

	err := s.Scan(&rec.ID, &rec.Surname, &rec.GivenName, &rec.Nationality,
		&rec.CountryOfResidence, &nationalID, &rec.DocumentType,
		&rec.DocumentNo, &dob, &rec.Age, &rec.Sex, &travelDate,
		&rec.Direction, &rec.AccommodationAddress, &rec.Note,
		&rec.TravelReason, &rec.BorderPost, &rec.DestinationComingFrom,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, err
	}

	if nationalID.Valid {
		n := nationalID.Int64
		rec.NationalIDNumber = &n
	}
	rec.DOB = dob.Time
	rec.TravelDate = travelDate.Time

	return rec, nil
}

// mapUniqueViolation converts a Postgres unique-constraint violation into an
// error that matches both domain.ErrDuplicate and carries field-level
// domain.FieldErrors naming the offending column. Returns ok=false for any
// other error.
//
// The ingestion pipeline relies on this to turn a lost insert race (two
// concurrent batches carrying the same document_no) into a "skipped:
// duplicate" outcome instead of a storage failure.
func mapUniqueViolation(err error) (error, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil, false
	}
	var fe domain.FieldErrors
	switch pgErr.ConstraintName {
	case "registry_national_id_number_key":
		fe = domain.FieldErrors{"national_id_number": "a record with this national ID number already exists"}
	default:
		fe = domain.FieldErrors{"document_no": "a record with this document number already exists"}
	}
	return fmt.Errorf("%w: %w", domain.ErrDuplicate, fe), true
}
