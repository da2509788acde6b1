// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

const initialUpSQL = `CREATE TABLE documents (
    id UUID PRIMARY KEY,
    file_name TEXT NOT NULL,
    extracted_text TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT 'pending',
    error_message TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    processed_at TIMESTAMPTZ
);

CREATE INDEX documents_created_at_idx ON documents (created_at DESC);
`

const initialDownSQL = `DROP TABLE documents;
`

// EnsureInitialRevision checks the migrations directory and, if no
// revision artifact exists in it, generates the initial revision as
// the 0001_init_up.sql and 0001_init_down.sql artifact files and
// returns true. A missing directory is created first. If any .sql
// file is present already, nothing is generated and false is
// returned; the check is a literal emptiness check, so it does not
// validate the present artifacts.
func (mig *Migrator) EnsureInitialRevision(ctx context.Context) (bool, error) {
	if err := os.MkdirAll(mig.dir, 0o755); err != nil {
		return false, fmt.Errorf("creating %q: %w", mig.dir, err)
	}
	entries, err := os.ReadDir(mig.dir)
	if err != nil {
		return false, fmt.Errorf("reading %q: %w", mig.dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filepath.Ext(entry.Name()) == ".sql" {
			return false, nil
		}
	}
	artifacts := map[string]string{
		"0001_init_up.sql":   initialUpSQL,
		"0001_init_down.sql": initialDownSQL,
	}
	for base, sql := range artifacts {
		path := filepath.Join(mig.dir, base)
		if err := os.WriteFile(path, []byte(sql), 0o644); err != nil {
			return false, fmt.Errorf("writing %q: %w", path, err)
		}
	}
	return true, nil
}
