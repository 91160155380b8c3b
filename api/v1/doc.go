// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

// Package v1 holds the wire models of the remote commerce API resources the
// importer reads and writes: customers, customer groups and custom types.
package v1
