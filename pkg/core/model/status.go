// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// ProcessingStatus specifies the document processing status enum.
// Although this enum is numeric, it is (de)serialized as a string for
// readability in the adapter layer and in the database.
type ProcessingStatus int

// Valid values for the ProcessingStatus enum.
const (
	StatusInvalid ProcessingStatus = iota // zero value is invalid

	StatusPending    // created, not yet processed
	StatusProcessing // text extraction is in progress
	StatusCompleted  // extracted text has been persisted
	StatusFailed     // processing failed, see the error message
)

// ErrUnknownStatus indicates that a given string may not be parsed
// as a valid/known processing status. This error encodes a description
// err string and does not communicate the invalid status string itself
// because the caller of ParseProcessingStatus already knows about the
// invalid status string and is responsible to wrap this error with
// that extra context if it has to be propagated.
var ErrUnknownStatus = errors.New("unknown processing status")

// StatusError indicates an invalid processing status. This error
// contains the invalid status as an integer, so it can report values
// which are found out during an execution (e.g., read from a database
// column) and not passed in as a string argument.
type StatusError int

// Error implements the error interface, returning a string
// representation of the StatusError.
func (e StatusError) Error() string {
	return fmt.Sprintf("invalid processing status: %d", int(e))
}

// Validate returns nil if the ProcessingStatus value is valid.
// For invalid values, an instance of StatusError will be returned.
func (s ProcessingStatus) Validate() error {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return nil
	default:
		return StatusError(s)
	}
}

// String converts the ProcessingStatus enum to a string, helping to
// serialize it for storage and transmission to web clients.
// Invalid status causes a panic.
func (s ProcessingStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusProcessing:
		return "processing"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	default:
		panic(StatusError(s))
	}
}

// ParseProcessingStatus parses the given string and returns a
// ProcessingStatus, helping to deserialize it when reading a database
// row or a REST API request. For invalid strings, StatusInvalid and
// ErrUnknownStatus will be returned.
func ParseProcessingStatus(s string) (ProcessingStatus, error) {
	switch s {
	case "pending":
		return StatusPending, nil
	case "processing":
		return StatusProcessing, nil
	case "completed":
		return StatusCompleted, nil
	case "failed":
		return StatusFailed, nil
	default:
		return StatusInvalid, ErrUnknownStatus
	}
}
