// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package v1

// LocalizedString maps a locale to a translated value.
type LocalizedString map[string]string

// FieldType names the type of a custom field, e.g. String or Boolean.
type FieldType struct {
	Name string `json:"name"`
}

// FieldDefinition describes one field of a custom type.
type FieldDefinition struct {
	Name      string          `json:"name"`
	Type      FieldType       `json:"type"`
	Required  bool            `json:"required"`
	Label     LocalizedString `json:"label"`
	InputHint string          `json:"inputHint,omitempty"`
}

// TypeDraft is the payload used to create a custom type.
type TypeDraft struct {
	Key              string            `json:"key"`
	Name             LocalizedString   `json:"name"`
	ResourceTypeIDs  []string          `json:"resourceTypeIds"`
	FieldDefinitions []FieldDefinition `json:"fieldDefinitions,omitempty"`
}

// Type is a custom type as stored by the remote API.
type Type struct {
	ID               string            `json:"id"`
	Version          int64             `json:"version"`
	Key              string            `json:"key"`
	Name             LocalizedString   `json:"name"`
	ResourceTypeIDs  []string          `json:"resourceTypeIds"`
	FieldDefinitions []FieldDefinition `json:"fieldDefinitions,omitempty"`
}

// PagedQueryResponse is one page of a query over a resource collection.
type PagedQueryResponse[T any] struct {
	Limit   int `json:"limit"`
	Offset  int `json:"offset"`
	Count   int `json:"count"`
	Total   int `json:"total"`
	Results []T `json:"results"`
}
