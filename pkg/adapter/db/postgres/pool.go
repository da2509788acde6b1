// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres provides the PostgreSQL adapter types, namely Pool,
// Conn, and Tx, implementing the interfaces which are defined by the
// core repo package using the GORM framework.
package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/momeni/docproc/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool represents a database connection pool over a *gorm.DB.
type Pool struct {
	*gorm.DB
}

// PoolOption tunes the standard library connection pool which backs
// the GORM instance.
type PoolOption func(p *Pool) error

// WithMaxConns limits the number of open and idle connections.
func WithMaxConns(open, idle int) PoolOption {
	return func(p *Pool) error {
		db, err := p.DB.DB()
		if err != nil {
			return err
		}
		db.SetMaxOpenConns(open)
		db.SetMaxIdleConns(idle)
		return nil
	}
}

// WithConnMaxLifetime limits the lifetime of pooled connections.
func WithConnMaxLifetime(d time.Duration) PoolOption {
	return func(p *Pool) error {
		db, err := p.DB.DB()
		if err != nil {
			return err
		}
		db.SetConnMaxLifetime(d)
		return nil
	}
}

// NewPool connects to the url database, applies the given pool
// options, and verifies the connection by acquiring one from the
// pool before returning it.
func NewPool(ctx context.Context, url string, opts ...PoolOption) (*Pool, error) {
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	gdb = gdb.Session(&gorm.Session{
		Logger: logger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags), logger.Config{
				SlowThreshold:             200 * time.Millisecond,
				LogLevel:                  logger.Warn,
				IgnoreRecordNotFoundError: false,
				Colorful:                  true,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			}),
	})
	pool := &Pool{DB: gdb}
	for _, opt := range opts {
		if err := opt(pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("configuring pool: %w", err)
		}
	}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
