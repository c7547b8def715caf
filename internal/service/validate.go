// Package service contains the business logic for the border registry
// backend. Services validate inputs, enforce business rules, and orchestrate
// repo calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pkordes/border-registry/backend/internal/domain"
	"github.com/pkordes/border-registry/backend/internal/repo"
)

// RecordValidator turns a raw RecordInput into a normalized domain.Record or
// a domain.FieldErrors naming every invalid field. It is shared by the
// single-record service and the CSV ingestion pipeline so both enforce
// identical rules.
//
// Uniqueness of document_no and national_id_number is pre-checked here
// against the store so callers get a field-level error instead of a raw
// constraint violation. The database constraint remains the final authority;
// see repo.RecordRepo.Create.
type RecordValidator struct {
	records  repo.RecordRepo
	validate *validator.Validate
	format   domain.DateFormat
}

// NewRecordValidator constructs a RecordValidator using the deployment's
// configured date format.
func NewRecordValidator(records repo.RecordRepo, format domain.DateFormat) *RecordValidator {
	v := validator.New()

	// Report errors under the json tag name ("given_name"), not the Go field
	// name, so FieldErrors keys match the wire and CSV column names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return &RecordValidator{records: records, validate: v, format: format}
}

// Validate normalizes and validates in, returning either a complete Record
// (ID and timestamps unset) or FieldErrors. It never returns a partially
// normalized record.
//
// excludeID is the record being updated, so that an unchanged document_no or
// national_id_number does not collide with itself; pass 0 for new records.
func (rv *RecordValidator) Validate(ctx context.Context, in domain.RecordInput, excludeID int64) (domain.Record, error) {
	in = trimInput(in)
	fieldErrs := domain.FieldErrors{}

	if err := rv.validate.Struct(in); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return domain.Record{}, fmt.Errorf("service.RecordValidator.Validate: %w", err)
		}
		for _, fe := range verrs {
			fieldErrs[fe.Field()] = tagMessage(fe)
		}
	}

	rec := domain.Record{
		Surname:               in.Surname,
		GivenName:             in.GivenName,
		Nationality:           in.Nationality,
		CountryOfResidence:    in.CountryOfResidence,
		DocumentType:          in.DocumentType,
		DocumentNo:            in.DocumentNo,
		Sex:                   in.Sex,
		Direction:             in.Direction,
		AccommodationAddress:  in.AccommodationAddress,
		Note:                  in.Note,
		TravelReason:          in.TravelReason,
		BorderPost:            in.BorderPost,
		DestinationComingFrom: in.DestinationComingFrom,
	}

	if _, bad := fieldErrs["age"]; !bad && in.Age != "" {
		age, err := strconv.Atoi(in.Age)
		switch {
		case err != nil:
			fieldErrs["age"] = "must be an integer"
		case age < 0:
			fieldErrs["age"] = "must not be negative"
		default:
			rec.Age = age
		}
	}

	// An empty national_id_number means absent (NULL), never zero.
	if in.NationalIDNumber != "" {
		n, err := strconv.ParseInt(in.NationalIDNumber, 10, 64)
		if err != nil {
			fieldErrs["national_id_number"] = "must be an integer"
		} else {
			rec.NationalIDNumber = &n
		}
	}

	if _, bad := fieldErrs["dob"]; !bad && in.DOB != "" {
		t, err := rv.format.Parse(in.DOB)
		if err != nil {
			fieldErrs["dob"] = err.Error()
		} else {
			rec.DOB = t
		}
	}
	if _, bad := fieldErrs["travel_date"]; !bad && in.TravelDate != "" {
		t, err := rv.format.Parse(in.TravelDate)
		if err != nil {
			fieldErrs["travel_date"] = err.Error()
		} else {
			rec.TravelDate = t
		}
	}

	if len(fieldErrs) > 0 {
		return domain.Record{}, fieldErrs
	}

	if err := rv.checkUnique(ctx, rec, excludeID); err != nil {
		return domain.Record{}, err
	}

	return rec, nil
}

// checkUnique pre-checks the uniqueness guarantees against the store.
func (rv *RecordValidator) checkUnique(ctx context.Context, rec domain.Record, excludeID int64) error {
	// On update, only re-check values that actually changed; an unchanged
	// document number always matches its own row.
	var current domain.Record
	if excludeID != 0 {
		var err error
		current, err = rv.records.GetByID(ctx, excludeID)
		if err != nil {
			return fmt.Errorf("service.RecordValidator.checkUnique: %w", err)
		}
	}

	dup := domain.FieldErrors{}

	if excludeID == 0 || rec.DocumentNo != current.DocumentNo {
		exists, err := rv.records.ExistsByDocumentNo(ctx, rec.DocumentNo)
		if err != nil {
			return fmt.Errorf("service.RecordValidator.checkUnique: %w", err)
		}
		if exists {
			dup["document_no"] = "a record with this document number already exists"
		}
	}

	if rec.NationalIDNumber != nil {
		changed := excludeID == 0 ||
			current.NationalIDNumber == nil ||
			*current.NationalIDNumber != *rec.NationalIDNumber
		if changed {
			exists, err := rv.records.ExistsByNationalID(ctx, *rec.NationalIDNumber)
			if err != nil {
				return fmt.Errorf("service.RecordValidator.checkUnique: %w", err)
			}
			if exists {
				dup["national_id_number"] = "a record with this national ID number already exists"
			}
		}
	}

	if len(dup) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrDuplicate, dup)
	}
	return nil
}

// tagMessage renders a human message for a failed validate tag.
func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return "is invalid"
	}
}

// trimInput strips surrounding whitespace from every field, so "  " fails
// the required check and stored values carry no stray padding.
func trimInput(in domain.RecordInput) domain.RecordInput {
	in.Surname = strings.TrimSpace(in.Surname)
	in.GivenName = strings.TrimSpace(in.GivenName)
	in.Nationality = strings.TrimSpace(in.Nationality)
	in.CountryOfResidence = strings.TrimSpace(in.CountryOfResidence)
	in.NationalIDNumber = strings.TrimSpace(in.NationalIDNumber)
	in.DocumentType = strings.TrimSpace(in.DocumentType)
	in.DocumentNo = strings.TrimSpace(in.DocumentNo)
	in.DOB = strings.TrimSpace(in.DOB)
	in.Age = strings.TrimSpace(in.Age)
	in.Sex = strings.TrimSpace(in.Sex)
	in.TravelDate = strings.TrimSpace(in.TravelDate)
	in.Direction = strings.TrimSpace(in.Direction)
	in.AccommodationAddress = strings.TrimSpace(in.AccommodationAddress)
	in.Note = strings.TrimSpace(in.Note)
	in.TravelReason = strings.TrimSpace(in.TravelReason)
	in.BorderPost = strings.TrimSpace(in.BorderPost)
	in.DestinationComingFrom = strings.TrimSpace(in.DestinationComingFrom)
	return in
}
