// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/docproc/pkg/core/log"
	"github.com/momeni/docproc/pkg/core/repo"
)

// Upgrade applies all pending revisions in ascending version order.
// Each revision runs in its own transaction alongside its history
// record, so a failing revision rolls back atomically while the
// previously applied revisions stay committed. The first failure
// stops the upgrade and the number of revisions which were applied
// by this call is returned.
func (mig *Migrator) Upgrade(ctx context.Context) (applied int, err error) {
	if mig.pool == nil {
		return 0, fmt.Errorf("no database pool is available")
	}
	revs, err := mig.loadRevisions()
	if err != nil {
		return 0, err
	}
	err = mig.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		if err := ensureHistoryTable(ctx, c); err != nil {
			return err
		}
		done, err := appliedVersions(ctx, c)
		if err != nil {
			return err
		}
		for _, rev := range revs {
			if done[rev.version] {
				continue
			}
			sql, err := rev.upSQL()
			if err != nil {
				return err
			}
			err = c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
				if _, err := tx.Exec(ctx, sql); err != nil {
					return fmt.Errorf(
						"applying revision %d (%s): %w",
						rev.version, rev.name, err,
					)
				}
				return recordRevision(ctx, tx, rev)
			})
			if err != nil {
				return err
			}
			applied++
			log.Info(
				ctx, "applied migration revision",
				slog.Int("version", rev.version),
				slog.String("name", rev.name),
			)
		}
		return nil
	})
	return applied, err
}
