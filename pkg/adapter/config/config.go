// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config loads, validates, and normalizes the project
// configuration settings from a YAML file, with selected environment
// variable overrides. A .env file in the working directory is loaded
// into the environment first, if one exists, so containerized and
// bare deployments can provide overrides the same way.
package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/momeni/docproc/pkg/adapter/db/postgres"
	"github.com/momeni/docproc/pkg/core/repo"
	"github.com/momeni/docproc/pkg/core/usecase/docsuc"
	"gopkg.in/yaml.v3"
)

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration can be kept intact while other layers
// can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Server   Server   // REST API server settings
	Storage  Storage  // filesystem layout settings
	Boot     Boot     // boot sequence settings
	Usecases Usecases // configuration settings for supported use cases
}

// Database contains the database related configuration settings.
// When the DATABASE_URL environment variable is set, it overrides
// these settings entirely.
type Database struct {
	Host     string // domain name or IP address of the DBMS server
	Port     int    // port number of the DBMS server
	Name     string // database name, like docproc
	User     string
	Password string
	SSLMode  string `yaml:"ssl-mode"`

	PoolSize        int      `yaml:"pool-size"` // max open connections
	MaxIdle         int      `yaml:"max-idle"`  // max idle connections
	ConnMaxLifetime Duration `yaml:"conn-max-lifetime"`

	url string // non-empty when DATABASE_URL overrides the settings
}

// Server contains the Gin-Gonic REST API server settings.
type Server struct {
	Host string // listening address, 0.0.0.0 by default
	Port int    // listening port, 8000 by default

	// Mode selects the Gin-Gonic operational mode and must be either
	// release or debug.
	Mode string
}

// Storage contains the filesystem layout settings.
type Storage struct {
	MigrationsDir string `yaml:"migrations-dir"`
	UploadDir     string `yaml:"upload-dir"`
	IndexDir      string `yaml:"index-dir"`
}

// Boot contains the boot sequence settings. The database readiness
// polling is disabled by default; the boot sequence connects exactly
// once and fails fast when the DBMS is not accepting connections yet.
type Boot struct {
	WaitForDatabase bool     `yaml:"wait-for-database"`
	WaitTimeout     Duration `yaml:"wait-timeout"`
}

// Usecases contains the configuration settings of the use cases.
type Usecases struct {
	// Documents represents the documents use case settings.
	// Nil fields fall back to their default values during the
	// normalization, so absent settings and explicit default values
	// are treated identically.
	Documents struct {
		ChunkSize     *int    `yaml:"chunk-size"`
		ChunkOverlap  *int    `yaml:"chunk-overlap"`
		Separator     *string `yaml:"separator"`
		MaxChunks     *int    `yaml:"max-chunks"`
		PreviewLength *int    `yaml:"preview-length"`
	}
}

// Load reads the path YAML file and returns the parsed and normalized
// Config instance. Environment variables are consulted after the file
// contents, so DATABASE_URL can override the database settings of a
// baked-in configuration file.
func Load(path string) (*Config, error) {
	// missing .env files are fine; variables may come from the real
	// environment in that case
	_ = godotenv.Load()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if u := os.Getenv("DATABASE_URL"); u != "" {
		c.Database.url = u
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// replaces the absent settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if err := c.Database.validateAndNormalize(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Server.validateAndNormalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	c.Storage.normalize()
	if c.Boot.WaitTimeout <= 0 {
		c.Boot.WaitTimeout = Duration(30 * time.Second)
	}
	return nil
}

func (d *Database) validateAndNormalize() error {
	if d.url != "" {
		return nil
	}
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("invalid port: %d", d.Port)
	}
	if d.Name == "" {
		return fmt.Errorf("database name is required")
	}
	if d.User == "" {
		return fmt.Errorf("database user is required")
	}
	switch d.SSLMode {
	case "":
		d.SSLMode = "disable"
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("invalid ssl-mode: %q", d.SSLMode)
	}
	if d.PoolSize <= 0 {
		d.PoolSize = 10
	}
	if d.MaxIdle <= 0 {
		d.MaxIdle = 5
	}
	if d.ConnMaxLifetime <= 0 {
		d.ConnMaxLifetime = Duration(time.Hour)
	}
	return nil
}

func (s *Server) validateAndNormalize() error {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8000
	}
	if s.Port < 0 || s.Port > 65535 {
		return fmt.Errorf("invalid port: %d", s.Port)
	}
	switch s.Mode {
	case "":
		s.Mode = "release"
	case "release", "debug":
	default:
		return fmt.Errorf("invalid mode: %q", s.Mode)
	}
	return nil
}

func (s *Storage) normalize() {
	if s.MigrationsDir == "" {
		s.MigrationsDir = "migrations"
	}
	if s.UploadDir == "" {
		s.UploadDir = "data/uploads"
	}
	if s.IndexDir == "" {
		s.IndexDir = "data/index"
	}
}

// URL returns the database connection URL, either the DATABASE_URL
// override verbatim or a URL which is computed from the individual
// settings fields.
func (d *Database) URL() string {
	if d.url != "" {
		return d.url
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(d.User, d.Password),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   "/" + d.Name,
	}
	q := url.Values{}
	q.Set("sslmode", d.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (repo.Pool, error) {
	p, err := postgres.NewPool(
		ctx, c.Database.URL(),
		postgres.WithMaxConns(c.Database.PoolSize, c.Database.MaxIdle),
		postgres.WithConnMaxLifetime(
			time.Duration(c.Database.ConnMaxLifetime),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return p, nil
}

// Addr returns the server listening address in the host:port format.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// NewDocsUseCase instantiates a documents use case, passing the
// optional settings from this Config instance as functional options.
func (c *Config) NewDocsUseCase(
	p repo.Pool, d repo.Documents,
	e docsuc.Extractor, ix docsuc.ChunkIndex,
) (*docsuc.UseCase, error) {
	docs := c.Usecases.Documents
	opts := []docsuc.Option{
		docsuc.WithUploadDir(c.Storage.UploadDir),
	}
	if docs.ChunkSize != nil || docs.ChunkOverlap != nil ||
		docs.Separator != nil || docs.MaxChunks != nil {
		size, overlap, maxChunks := 0, -1, 0
		separator := ""
		if docs.ChunkSize != nil {
			size = *docs.ChunkSize
		}
		if docs.ChunkOverlap != nil {
			overlap = *docs.ChunkOverlap
		}
		if docs.Separator != nil {
			separator = *docs.Separator
		}
		if docs.MaxChunks != nil {
			maxChunks = *docs.MaxChunks
		}
		opts = append(
			opts, docsuc.WithChunking(size, overlap, separator, maxChunks),
		)
	}
	if docs.PreviewLength != nil {
		opts = append(
			opts, docsuc.WithPreviewLength(*docs.PreviewLength),
		)
	}
	uc, err := docsuc.New(p, d, e, ix, opts...)
	if err != nil {
		return nil, fmt.Errorf("instantiating documents use case: %w", err)
	}
	return uc, nil
}
