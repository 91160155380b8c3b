// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package v1

// CustomerGroup is a named group customers can be assigned to.
type CustomerGroup struct {
	ID      string `json:"id"`
	Version int64  `json:"version"`
	Name    string `json:"name"`
	Key     string `json:"key,omitempty"`
}

// CustomerGroupDraft is the payload used to create a customer group.
type CustomerGroupDraft struct {
	GroupName string `json:"groupName"`
	Key       string `json:"key,omitempty"`
}

// CustomerGroupReference returns a resource identifier pointing at the group with the given id.
func CustomerGroupReference(id string) ResourceIdentifier {
	return ResourceIdentifier{TypeID: TypeIDCustomerGroup, ID: id}
}
