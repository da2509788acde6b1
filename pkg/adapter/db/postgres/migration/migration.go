// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration manages the database schema revisions. Revisions
// are kept as plain SQL artifact files in a configurable directory,
// named like 0001_init_up.sql and 0001_init_down.sql, and the applied
// revision versions are tracked in the schema_migrations table of the
// target database. The Migrator type implements the repo.Migrator
// interface, supporting the initial revision generation and the
// upgrade to the latest revision operations.
package migration

import (
	"github.com/momeni/docproc/pkg/core/repo"
)

// Migrator maintains the schema revisions of the pool database using
// the revision artifacts in the dir directory. A Migrator with a nil
// pool can only generate revision artifacts; the pool is required for
// the Upgrade operation.
type Migrator struct {
	dir  string
	pool repo.Pool
}

// New instantiates a Migrator, reading revisions from the dir
// directory and applying them on the p pool database.
func New(dir string, p repo.Pool) *Migrator {
	return &Migrator{dir: dir, pool: p}
}
