// Package domain contains the core data types for the border registry backend.
// This package has no HTTP or SQL dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Record represents one traveler/border-crossing entry in the registry.
// DOB and TravelDate are held as normalized dates once input has been
// validated against the deployment's configured date format; they are stored
// as SQL date columns.
//
// NationalIDNumber is nil when the traveler did not supply one. When present
// it is globally unique, as is DocumentNo.
type Record struct {
	ID                    int64     `json:"id"`
	Surname               string    `json:"surname"`
	GivenName             string    `json:"given_name"`
	Nationality           string    `json:"nationality"`
	CountryOfResidence    string    `json:"country_of_residence"`
	NationalIDNumber      *int64    `json:"national_id_number,omitempty"`
	DocumentType          string    `json:"document_type"`
	DocumentNo            string    `json:"document_no"`
	DOB                   time.Time `json:"dob"`
	Age                   int       `json:"age"`
	Sex                   string    `json:"sex"`
	TravelDate            time.Time `json:"travel_date"`
	Direction             string    `json:"direction"`
	AccommodationAddress  string    `json:"accommodation_address"`
	Note                  string    `json:"note,omitempty"`
	TravelReason          string    `json:"travel_reason"`
	BorderPost            string    `json:"border_post"`
	DestinationComingFrom string    `json:"destination_coming_from"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// RecordInput is the raw field-value mapping for a record, as produced by a
// form submission or a CSV row. Everything arrives as strings; the validator
// normalizes it into a Record or rejects it with FieldErrors.
//
// The validate tags cover presence and length; integer and date parsing have
// format rules the tag language cannot express and are checked by the
// validator service.
type RecordInput struct {
	Surname               string `json:"surname" validate:"required,max=255"`
	GivenName             string `json:"given_name" validate:"required,max=255"`
	Nationality           string `json:"nationality" validate:"required,max=255"`
	CountryOfResidence    string `json:"country_of_residence" validate:"required,max=255"`
	NationalIDNumber      string `json:"national_id_number" validate:"omitempty,max=255"`
	DocumentType          string `json:"document_type" validate:"required,max=255"`
	DocumentNo            string `json:"document_no" validate:"required,max=255"`
	DOB                   string `json:"dob" validate:"required,max=255"`
	Age                   string `json:"age" validate:"required,max=255"`
	Sex                   string `json:"sex" validate:"required,max=50"`
	TravelDate            string `json:"travel_date" validate:"required,max=255"`
	Direction             string `json:"direction" validate:"required,max=255"`
	AccommodationAddress  string `json:"accommodation_address" validate:"required,max=255"`
	Note                  string `json:"note" validate:"omitempty,max=1000"`
	TravelReason          string `json:"travel_reason" validate:"required,max=255"`
	BorderPost            string `json:"border_post" validate:"required,max=255"`
	DestinationComingFrom string `json:"destination_coming_from" validate:"required,max=255"`
}
