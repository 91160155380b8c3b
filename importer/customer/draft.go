// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customer

import (
	"crypto/rand"

	v1 "github.com/sphereio/customer-import/api/v1"
	"github.com/sphereio/customer-import/importer/validator"
)

// generatePassword returns a random password for a new account.
var generatePassword = rand.Text

// newDraft converts a validated record into the create payload.
// The customer group is left for the caller to resolve.
func newDraft(record *validator.Record) *v1.CustomerDraft {
	draft := &v1.CustomerDraft{
		Email:                  record.Email,
		CustomerNumber:         record.CustomerNumber,
		ExternalID:             record.ExternalID,
		FirstName:              record.FirstName,
		LastName:               record.LastName,
		MiddleName:             record.MiddleName,
		Title:                  record.Title,
		CompanyName:            record.CompanyName,
		VatID:                  record.VatID,
		Phone:                  record.Phone,
		DateOfBirth:            record.DateOfBirth,
		AnonymousCartID:        record.AnonymousCartID,
		IsEmailVerified:        record.IsEmailVerified,
		DefaultShippingAddress: record.DefaultShippingAddress,
		DefaultBillingAddress:  record.DefaultBillingAddress,
	}

	for _, address := range record.Addresses {
		draft.Addresses = append(draft.Addresses, v1.Address{
			FirstName:  address.FirstName,
			LastName:   address.LastName,
			StreetName: address.StreetName,
			PostalCode: address.PostalCode,
			Company:    address.Company,
			City:       address.City,
			Country:    address.Country,
		})
	}

	if record.Custom != nil {
		draft.Custom = &v1.CustomFields{
			Type:   v1.ResourceIdentifier{TypeID: v1.TypeIDType, Key: record.Custom.Type.Key},
			Fields: record.Custom.Fields,
		}
	}

	return draft
}
