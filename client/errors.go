// Copyright AGNTCY Contributors (https://github.com/agntcy)
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	v1 "github.com/sphereio/customer-import/api/v1"
)

// CodeDuplicateField is the error code the API returns when a unique field
// (such as a customer email) is already taken.
const CodeDuplicateField = "DuplicateField"

// ErrorKind classifies remote failures for callers.
type ErrorKind int

const (
	// KindOther covers every failure that is not a uniqueness conflict.
	KindOther ErrorKind = iota
	// KindConflict signals a uniqueness violation on create.
	KindConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflict:
		return "conflict"
	default:
		return "other"
	}
}

// RemoteError is a non-2xx API response translated into a typed error.
type RemoteError struct {
	Kind       ErrorKind        `json:"-"`
	StatusCode int              `json:"statusCode"`
	Message    string           `json:"message"`
	Errors     []v1.ErrorObject `json:"errors,omitempty"`
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}

	if len(e.Errors) == 0 {
		return fmt.Sprintf("remote error %d: %s", e.StatusCode, msg)
	}

	codes := make([]string, 0, len(e.Errors))
	for _, obj := range e.Errors {
		codes = append(codes, obj.Code)
	}

	return fmt.Sprintf("remote error %d: %s [%s]", e.StatusCode, msg, strings.Join(codes, ", "))
}

// IsConflict reports whether err (or any error it wraps) is a uniqueness conflict.
func IsConflict(err error) bool {
	var remoteErr *RemoteError
	if errors.As(err, &remoteErr) {
		return remoteErr.Kind == KindConflict
	}

	return false
}

// newRemoteError decodes the error envelope from a failed response body.
// Bodies that are not a valid envelope still produce an error of KindOther.
func newRemoteError(statusCode int, body []byte) *RemoteError {
	remoteErr := &RemoteError{StatusCode: statusCode}

	if len(body) > 0 {
		if err := jsonCodec.Unmarshal(body, remoteErr); err != nil {
			remoteErr.Message = strings.TrimSpace(string(body))
		}
	}

	// The envelope carries its own status code; the transport one wins.
	remoteErr.StatusCode = statusCode
	remoteErr.Kind = classify(remoteErr.Errors)

	return remoteErr
}

func classify(objects []v1.ErrorObject) ErrorKind {
	for _, obj := range objects {
		if obj.Code == CodeDuplicateField {
			return KindConflict
		}
	}

	return KindOther
}
