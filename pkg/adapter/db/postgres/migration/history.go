// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"
	"fmt"

	"github.com/momeni/docproc/pkg/core/repo"
)

const createHistoryTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// ensureHistoryTable creates the schema_migrations history table if
// it does not exist yet.
func ensureHistoryTable(ctx context.Context, q repo.Queryer) error {
	if _, err := q.Exec(ctx, createHistoryTable); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}
	return nil
}

// appliedVersions queries the history table and returns the set of
// the already applied revision versions.
func appliedVersions(ctx context.Context, q repo.Queryer) (map[int]bool, error) {
	rows, err := q.Query(
		ctx, `SELECT version FROM schema_migrations`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying schema_migrations: %w", err)
	}
	defer rows.Close()
	applied := make(map[int]bool)
	for rows.Next() {
		var version int64
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		applied[int(version)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating versions: %w", err)
	}
	return applied, nil
}

// recordRevision inserts one applied revision into the history table.
// It must run in the same transaction which applied the revision, so
// the history and the schema changes commit or roll back together.
func recordRevision(ctx context.Context, q repo.Queryer, rev revision) error {
	_, err := q.Exec(
		ctx,
		`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`,
		rev.version, rev.name,
	)
	if err != nil {
		return fmt.Errorf("recording revision %d: %w", rev.version, err)
	}
	return nil
}
