// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., as required by ORM
// libraries) since adding more tags does not complicate definition of
// a struct, but can prevent unnecessary structs duplication.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Document models an uploaded PDF document which may be persisted in
// a database. The ExtractedText field is empty until the text
// extraction phase completes and the ProcessedAt field is nil until
// the document reaches a terminal status (completed or failed).
// The corresponding table row struct, which maps these fields to their
// column names, is the unexported gDocument struct in the
// pkg/adapter/db/postgres/docsrp/query.go file.
type Document struct {
	ID            uuid.UUID        // unique document identifier
	FileName      string           // name of the uploaded file
	ExtractedText string           // full extracted text, if any
	Status        ProcessingStatus // current processing status
	ErrorMessage  string           // failure reason, if failed
	CreatedAt     time.Time        // creation timestamp
	ProcessedAt   *time.Time       // completion/failure timestamp
}
