// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package customer

import (
	"errors"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/sphereio/customer-import/importer/validator"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Failure is a record that could not be imported.
type Failure struct {
	Customer validator.Raw
	Err      error
}

// MarshalJSON renders validation failures as their violation list and every
// other failure as its message.
func (f Failure) MarshalJSON() ([]byte, error) {
	var errValue any

	var violations validator.Violations

	switch {
	case f.Err == nil:
		errValue = nil
	case errors.As(f.Err, &violations):
		errValue = violations
	default:
		errValue = f.Err.Error()
	}

	return jsonCodec.Marshal(struct {
		Customer validator.Raw `json:"customer"`
		Error    any           `json:"error"`
	}{
		Customer: f.Customer,
		Error:    errValue,
	})
}

// Report is a snapshot of a run's outcomes.
type Report struct {
	Errors            []Failure `json:"errors"`
	Inserted          []string  `json:"inserted"`
	SuccessfulImports int       `json:"successfulImports"`
}

// JSON encodes the report.
func (r Report) JSON() ([]byte, error) {
	return jsonCodec.Marshal(r)
}

// summary accumulates outcomes. Lists are append-only and the counter only grows.
type summary struct {
	mu                sync.Mutex
	errors            []Failure
	inserted          []string
	successfulImports int
}

func (s *summary) addFailure(raw validator.Raw, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errors = append(s.errors, Failure{Customer: raw, Err: err})
}

func (s *summary) addInserted(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inserted = append(s.inserted, email)
	s.successfulImports++
}

func (s *summary) snapshot() Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Report{
		Errors:            append(make([]Failure, 0, len(s.errors)), s.errors...),
		Inserted:          append(make([]string, 0, len(s.inserted)), s.inserted...),
		SuccessfulImports: s.successfulImports,
	}
}
