// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"

	"github.com/momeni/docproc/pkg/adapter/config"
	"github.com/momeni/docproc/pkg/adapter/db/postgres/migration"
	"github.com/spf13/cobra"
)

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Apply all pending migration revisions",
	Long: `Upgrade applies all pending migration revisions from the
configured migrations directory to the database, each in its own
transaction, recording them in the schema_migrations table. The
first failing revision stops the upgrade with a non-zero exit code
while the previously applied revisions stay committed.`,
	RunE: upgrade,
}

func upgrade(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	mig := migration.New(c.Storage.MigrationsDir, p)
	n, err := mig.Upgrade(ctx)
	if err != nil {
		return fmt.Errorf("upgrading database schema: %w", err)
	}
	fmt.Printf("applied %d migration revisions\n", n)
	return nil
}

func init() {
	dbCmd.AddCommand(upgradeCmd)
}
