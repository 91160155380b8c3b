// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package validator checks raw feed records against the customer schema and
// decodes them into typed records.
//
// The schema is lenient: fields it does not declare are dropped, and scalar
// values are coerced to the declared type where possible ("true" becomes a
// bool, 12341234 becomes the string "12341234").
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

// Raw is one customer as read from a feed.
type Raw = map[string]any

// Address is a postal address of a record.
type Address struct {
	FirstName  string `mapstructure:"firstName"`
	LastName   string `mapstructure:"lastName"`
	StreetName string `mapstructure:"streetName"`
	PostalCode string `mapstructure:"postalCode"`
	Company    string `mapstructure:"company"`
	City       string `mapstructure:"city"`
	Country    string `mapstructure:"country"    validate:"omitempty,len=2"`
}

// CustomType references a custom type by key.
type CustomType struct {
	Key string `mapstructure:"key"`
}

// Custom holds custom field values of a record.
type Custom struct {
	Type   CustomType     `mapstructure:"type"`
	Fields map[string]any `mapstructure:"fields"`
}

// Record is a customer that passed validation.
type Record struct {
	Email           string    `mapstructure:"email"           validate:"required"`
	CustomerNumber  string    `mapstructure:"customerNumber"`
	CompanyName     string    `mapstructure:"companyName"`
	FirstName       string    `mapstructure:"firstName"`
	LastName        string    `mapstructure:"lastName"`
	MiddleName      string    `mapstructure:"middleName"`
	Title           string    `mapstructure:"title"`
	AnonymousCartID string    `mapstructure:"anonymousCartId"`
	DateOfBirth     string    `mapstructure:"dateOfBirth"`
	ExternalID      string    `mapstructure:"externalId"`
	IsEmailVerified bool      `mapstructure:"isEmailVerified"`
	Phone           string    `mapstructure:"phone"`
	CustomerGroup   string    `mapstructure:"customerGroup"`
	VatID           string    `mapstructure:"vatId"`
	Addresses       []Address `mapstructure:"addresses"       validate:"dive"`
	Custom          *Custom   `mapstructure:"custom"`

	DefaultShippingAddress *int `mapstructure:"defaultShippingAddress" validate:"omitempty,min=0"`
	DefaultBillingAddress  *int `mapstructure:"defaultBillingAddress"  validate:"omitempty,min=0"`
}

// Violation describes one schema rule a record broke.
type Violation struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Violations is the error returned for an invalid record.
type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, 0, len(v))
	for _, violation := range v {
		msgs = append(msgs, violation.Message)
	}

	return "invalid record: " + strings.Join(msgs, "; ")
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their feed names.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("mapstructure"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate decodes raw into a Record and checks it against the schema.
// The returned error is always of type Violations.
func Validate(raw Raw) (*Record, error) {
	record := &Record{}

	if err := decode(raw, record); err != nil {
		return nil, decodeViolations(err)
	}

	if err := validate.Struct(record); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, ruleViolations(fieldErrs)
		}

		return nil, Violations{{Rule: "schema", Message: err.Error()}}
	}

	return record, nil
}

// CustomerGroup returns the customer group name of raw as Validate decodes
// it, or "" when the record names none or the value cannot be decoded.
func CustomerGroup(raw Raw) string {
	var group struct {
		CustomerGroup string `mapstructure:"customerGroup"`
	}

	if err := decode(Raw{"customerGroup": raw["customerGroup"]}, &group); err != nil {
		return ""
	}

	return group.CustomerGroup
}

func decode(raw Raw, result any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}

	return decoder.Decode(raw)
}

func decodeViolations(err error) Violations {
	var decodeErr *mapstructure.Error
	if !errors.As(err, &decodeErr) {
		return Violations{{Rule: "type", Message: err.Error()}}
	}

	violations := make(Violations, 0, len(decodeErr.Errors))
	for _, msg := range decodeErr.Errors {
		violations = append(violations, Violation{
			Field:   quotedField(msg),
			Rule:    "type",
			Message: msg,
		})
	}

	return violations
}

func ruleViolations(fieldErrs validator.ValidationErrors) Violations {
	violations := make(Violations, 0, len(fieldErrs))

	for _, fieldErr := range fieldErrs {
		field := fieldErr.Namespace()
		if _, rest, ok := strings.Cut(field, "."); ok {
			field = rest
		}

		violations = append(violations, Violation{
			Field:   field,
			Rule:    fieldErr.Tag(),
			Message: ruleMessage(field, fieldErr),
		})
	}

	return violations
}

func ruleMessage(field string, fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "len":
		return fmt.Sprintf("'%s' must be exactly %s characters long", field, fieldErr.Param())
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("'%s' failed on the '%s' rule", field, fieldErr.Tag())
	}
}

// quotedField extracts the field name mapstructure puts in quotes at the
// start of its messages.
func quotedField(msg string) string {
	_, rest, ok := strings.Cut(msg, "'")
	if !ok {
		return ""
	}

	field, _, ok := strings.Cut(rest, "'")
	if !ok {
		return ""
	}

	return field
}
