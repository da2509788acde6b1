// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Migrator abstracts the database schema migration operations which
// are required by the boot sequence. Implementations keep migration
// revisions as artifact files in a directory and track the applied
// revisions in a history table in the target database.
type Migrator interface {
	// EnsureInitialRevision checks the migrations directory and, if it
	// is missing or contains no revision artifacts, generates the
	// initial revision (reporting true). A non-empty directory causes
	// no generation at all (reporting false). The check is a literal
	// emptiness check; partially applied or corrupted revision state
	// is not detected.
	EnsureInitialRevision(ctx context.Context) (bool, error)

	// Upgrade applies all pending revisions in ascending order, each
	// in its own transaction, recording every applied revision in the
	// history table. It stops at the first failing revision and
	// returns the number of revisions which were applied successfully.
	Upgrade(ctx context.Context) (int, error)
}
