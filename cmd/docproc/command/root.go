// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the docproc
// project. Commands are organized using the cobra library.
// The root command starts the REST API server itself, the "boot"
// sub-command runs the container entrypoint sequence (generating the
// initial migration revision if none exists, applying all pending
// revisions, and replacing itself with the server process), while
// the "db" sub-command exposes the migration actions individually.
//
//	./docproc [-c /path/of/main/config.yaml]      # start API server
//	./docproc boot [-c /path/of/main/config.yaml] # migrate, then serve
//	./docproc db generate [-c /path/of/main/config.yaml]
//	./docproc db upgrade [-c /path/of/main/config.yaml]
package command

import (
	"context"
	"fmt"
	"os"

	ggin "github.com/gin-gonic/gin"
	"github.com/momeni/docproc/pkg/adapter/config"
	"github.com/momeni/docproc/pkg/adapter/restful/gin"
	"github.com/momeni/docproc/pkg/adapter/restful/gin/routes"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "docproc",
	Short: "A PDF document processing service",
	Long: `A PDF document processing service which accepts uploaded
PDF documents over a REST API, extracts their plain text contents,
stores the documents metadata in a PostgreSQL database, and splits
the extracted texts into overlapping chunks which are indexed in an
embedded local database for later retrieval.
The server configuration is read from a YAML file, while a .env file
and the DATABASE_URL environment variable can override the database
connection settings for containerized deployments.`,
	RunE: startServer,
}

func startServer(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	p, err := c.ConnectionPool(ctx)
	if err != nil {
		return fmt.Errorf("creating DB pool: %w", err)
	}
	defer p.Close()
	if c.Server.Mode == "release" {
		ggin.SetMode(ggin.ReleaseMode)
	}
	e := gin.New(gin.Logger(), gin.Recovery(), gin.CORS())
	if err = routes.Register(ctx, e, p, c); err != nil {
		return fmt.Errorf("registering routes: %w", err)
	}
	if err = e.Run(c.Server.Addr()); err != nil {
		return fmt.Errorf("running Gin engine: %w", err)
	}
	return nil
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Serve starts the REST API server without touching the
database schema. It is the explicit form of the root command and is
the process which the boot command replaces itself with.`,
	RunE: startServer,
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. The exit code may
// be a boolean (zero for success and non-zero for failure) or may be
// chosen based on the error condition (if it is desired to report
// several error conditions in the CLI of this program).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.AddCommand(serveCmd)
}

// fixConfigPath ensures that cfgPath is set respectively by either the
// CLI args, the CONFIG_FILE environment variable, or its default value.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	var found bool
	if cfgPath, found = os.LookupEnv("CONFIG_FILE"); !found {
		cfgPath = "configs/sample-config.yaml"
	}
}
