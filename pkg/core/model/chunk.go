// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "github.com/google/uuid"

// Chunk models one piece of a document's extracted text, as produced
// by the chunker and persisted in the local chunk index. The Seq field
// reports the zero-based position of this chunk within its document,
// so the chunk identifier can be derived as documentID_seq.
type Chunk struct {
	DocumentID uuid.UUID // owning document identifier
	Seq        int       // zero-based chunk position
	Content    string    // chunk text
}
