// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/docproc/pkg/core/log"
)

// WaitForDatabase polls the url database until it accepts a
// connection and answers a ping, or the timeout elapses. The
// connection is established with pgx directly, so a DBMS which is
// still starting up does not poison the GORM pool with failed
// connection attempts.
func WaitForDatabase(
	ctx context.Context, url string, timeout time.Duration,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	for i := 1; ; i++ {
		err := tryPing(ctx, url)
		if err == nil {
			return nil
		}
		log.Info(
			ctx, "database is not ready yet",
			slog.Int("attempt", i),
			log.Err("error", err),
		)
		select {
		case <-ctx.Done():
			return fmt.Errorf(
				"database did not become ready in %v: %w", timeout, err,
			)
		case <-time.After(time.Second):
		}
	}
}

func tryPing(ctx context.Context, url string) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)
	return conn.Ping(ctx)
}
