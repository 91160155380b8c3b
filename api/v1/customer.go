// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package v1

// Reference type ids.
const (
	TypeIDCustomerGroup = "customer-group"
	TypeIDType          = "type"
)

// ResourceIdentifier points at another resource either by id or by key.
type ResourceIdentifier struct {
	TypeID string `json:"typeId,omitempty"`
	ID     string `json:"id,omitempty"`
	Key    string `json:"key,omitempty"`
}

// Address is a postal address of a customer.
type Address struct {
	ID         string `json:"id,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	StreetName string `json:"streetName,omitempty"`
	PostalCode string `json:"postalCode,omitempty"`
	Company    string `json:"company,omitempty"`
	City       string `json:"city,omitempty"`
	Country    string `json:"country,omitempty"`
}

// CustomFields carries values for a custom type attached to a resource.
type CustomFields struct {
	Type   ResourceIdentifier `json:"type"`
	Fields map[string]any     `json:"fields,omitempty"`
}

// CustomerDraft is the payload used to create a customer.
//
// DefaultShippingAddress and DefaultBillingAddress are indices into Addresses.
type CustomerDraft struct {
	Email                  string              `json:"email"`
	Password               string              `json:"password,omitempty"`
	CustomerNumber         string              `json:"customerNumber,omitempty"`
	ExternalID             string              `json:"externalId,omitempty"`
	FirstName              string              `json:"firstName,omitempty"`
	LastName               string              `json:"lastName,omitempty"`
	MiddleName             string              `json:"middleName,omitempty"`
	Title                  string              `json:"title,omitempty"`
	CompanyName            string              `json:"companyName,omitempty"`
	VatID                  string              `json:"vatId,omitempty"`
	Phone                  string              `json:"phone,omitempty"`
	DateOfBirth            string              `json:"dateOfBirth,omitempty"`
	AnonymousCartID        string              `json:"anonymousCartId,omitempty"`
	IsEmailVerified        bool                `json:"isEmailVerified,omitempty"`
	Addresses              []Address           `json:"addresses,omitempty"`
	DefaultShippingAddress *int                `json:"defaultShippingAddress,omitempty"`
	DefaultBillingAddress  *int                `json:"defaultBillingAddress,omitempty"`
	CustomerGroup          *ResourceIdentifier `json:"customerGroup,omitempty"`
	Custom                 *CustomFields       `json:"custom,omitempty"`
}

// Customer is a customer as stored by the remote API.
type Customer struct {
	ID                       string              `json:"id"`
	Version                  int64               `json:"version"`
	Email                    string              `json:"email"`
	CustomerNumber           string              `json:"customerNumber,omitempty"`
	ExternalID               string              `json:"externalId,omitempty"`
	FirstName                string              `json:"firstName,omitempty"`
	LastName                 string              `json:"lastName,omitempty"`
	MiddleName               string              `json:"middleName,omitempty"`
	Title                    string              `json:"title,omitempty"`
	CompanyName              string              `json:"companyName,omitempty"`
	VatID                    string              `json:"vatId,omitempty"`
	DateOfBirth              string              `json:"dateOfBirth,omitempty"`
	IsEmailVerified          bool                `json:"isEmailVerified"`
	Addresses                []Address           `json:"addresses"`
	DefaultShippingAddressID string              `json:"defaultShippingAddressId,omitempty"`
	DefaultBillingAddressID  string              `json:"defaultBillingAddressId,omitempty"`
	CustomerGroup            *ResourceIdentifier `json:"customerGroup,omitempty"`
	Custom                   *CustomFields       `json:"custom,omitempty"`
}

// CustomerSignInResult is returned when a customer is created.
type CustomerSignInResult struct {
	Customer Customer `json:"customer"`
}
