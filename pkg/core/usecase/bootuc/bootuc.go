// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bootuc contains the boot UseCase which prepares a fresh or
// existing database deployment and then starts the API server. The
// boot sequence runs these steps in order, stopping at the first
// failure:
//  1. Generate the initial migration revision if the migrations
//     directory contains none,
//  2. Apply all pending revisions to the database,
//  3. Hand control over to the server process.
package bootuc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momeni/docproc/pkg/core/log"
	"github.com/momeni/docproc/pkg/core/repo"
)

// ServerExec starts the API server, replacing the current process
// image. It only returns in case of a failure, hence, a nil return
// value is never expected from it.
type ServerExec func() error

// UseCase represents the boot use case.
type UseCase struct {
	mig  repo.Migrator
	exec ServerExec
}

// New instantiates a boot use case with the given migrator and server
// execution function.
func New(mig repo.Migrator, exec ServerExec) *UseCase {
	return &UseCase{mig: mig, exec: exec}
}

// Boot runs the boot sequence. Each step must succeed before the next
// one starts and any error aborts the sequence immediately, keeping
// the database untouched by later steps. When all revisions are
// applied, the server execution function is called; since it replaces
// the process image, Boot does not return on success.
func (boot *UseCase) Boot(ctx context.Context) error {
	generated, err := boot.mig.EnsureInitialRevision(ctx)
	if err != nil {
		return fmt.Errorf("ensuring initial migration revision: %w", err)
	}
	if generated {
		log.Info(ctx, "generated initial migration revision")
	}
	n, err := boot.mig.Upgrade(ctx)
	if err != nil {
		return fmt.Errorf("upgrading database schema: %w", err)
	}
	log.Info(
		ctx, "database schema is up to date",
		slog.Int("applied_revisions", n),
	)
	if err := boot.exec(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	return nil
}
