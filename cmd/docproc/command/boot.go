// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/momeni/docproc/pkg/adapter/config"
	"github.com/momeni/docproc/pkg/adapter/db/postgres"
	"github.com/momeni/docproc/pkg/adapter/db/postgres/migration"
	"github.com/momeni/docproc/pkg/core/log"
	"github.com/momeni/docproc/pkg/core/usecase/bootuc"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var bootCmd = &cobra.Command{
	Use:   "boot",
	Short: "Prepare the database and start the API server",
	Long: `Boot runs the container entrypoint sequence. It generates
the initial migration revision if the migrations directory contains
no revision artifacts, applies all pending revisions to the database,
and finally replaces itself with the API server process. Any failing
step aborts the sequence with a non-zero exit code, leaving later
steps unexecuted.`,
	RunE: boot,
}

func boot(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	if c.Boot.WaitForDatabase {
		log.Info(
			ctx, "waiting for database",
			log.Valuer("timeout", &c.Boot.WaitTimeout),
		)
		err = postgres.WaitForDatabase(
			ctx, c.Database.URL(),
			time.Duration(c.Boot.WaitTimeout),
		)
		if err != nil {
			return fmt.Errorf("waiting for database: %w", err)
		}
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	mig := migration.New(c.Storage.MigrationsDir, p)
	uc := bootuc.New(mig, execServer)
	if err := uc.Boot(ctx); err != nil {
		return fmt.Errorf("boot sequence: %w", err)
	}
	return nil
}

// execServer replaces the current process image with the API server,
// preserving the process environment and the configuration file path,
// so the server takes over this PID and receives container signals
// directly. It only returns in case of a failure.
func execServer() error {
	bin, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locating executable: %w", err)
	}
	argv := []string{bin, "serve"}
	if cfgPath != "" {
		argv = append(argv, "-c", cfgPath)
	}
	if err := unix.Exec(bin, argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %q: %w", bin, err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(bootCmd)
}
