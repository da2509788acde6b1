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

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the initial migration revision if none exists",
	Long: `Generate checks the configured migrations directory and, if
it contains no revision artifacts, writes the initial revision as the
0001_init_up.sql and 0001_init_down.sql files. A non-empty directory
is left untouched. No database connection is required.`,
	RunE: generate,
}

func generate(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	mig := migration.New(c.Storage.MigrationsDir, nil)
	generated, err := mig.EnsureInitialRevision(cmd.Context())
	if err != nil {
		return fmt.Errorf("generating initial revision: %w", err)
	}
	if generated {
		fmt.Printf(
			"generated initial revision in %s\n",
			c.Storage.MigrationsDir,
		)
	} else {
		fmt.Println("migrations directory is not empty; nothing to do")
	}
	return nil
}

func init() {
	dbCmd.AddCommand(generateCmd)
}
