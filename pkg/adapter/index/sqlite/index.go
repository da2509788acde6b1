// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sqlite provides the local chunk index adapter, persisting
// the text chunks of each document in an embedded SQLite database,
// so they survive server restarts without requiring any external
// service next to the PostgreSQL DBMS.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/core/model"
	_ "modernc.org/sqlite"
)

// Index represents an open chunk index database.
// Its methods are safe for concurrent use.
type Index struct {
	db *sql.DB
}

// Open creates the dir directory if needed and opens the chunks.db
// SQLite database within it, initializing its schema on the first
// run. The database is opened in the WAL journaling mode, so readers
// do not block the writer.
func Open(dir string) (*Index, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %q: %w", dir, err)
	}
	path := filepath.Join(dir, "chunks.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %q: %w", path, err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("executing %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(initialSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return &Index{db: db}, nil
}

// ReplaceChunks overwrites all indexed chunks of the docID document
// with the given chunks, in one transaction, so a failure leaves the
// previously indexed chunks intact.
func (ix *Index) ReplaceChunks(
	ctx context.Context, docID uuid.UUID, chunks []string,
) (err error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	_, err = tx.ExecContext(
		ctx, `DELETE FROM chunks WHERE document_id = ?`, docID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}
	for seq, content := range chunks {
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO chunks (id, document_id, seq, content, length)
			 VALUES (?, ?, ?, ?, ?)`,
			fmt.Sprintf("%s_%d", docID, seq), docID.String(), seq,
			content, len(content),
		)
		if err != nil {
			return fmt.Errorf("inserting chunk %d: %w", seq, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// DeleteDocument removes all indexed chunks of the docID document.
// Deleting an unknown document is not an error.
func (ix *Index) DeleteDocument(
	ctx context.Context, docID uuid.UUID,
) error {
	_, err := ix.db.ExecContext(
		ctx, `DELETE FROM chunks WHERE document_id = ?`, docID.String(),
	)
	if err != nil {
		return fmt.Errorf("deleting chunks: %w", err)
	}
	return nil
}

// Chunks returns the indexed chunks of the docID document, ordered by
// their sequence numbers.
func (ix *Index) Chunks(
	ctx context.Context, docID uuid.UUID,
) ([]model.Chunk, error) {
	rows, err := ix.db.QueryContext(
		ctx,
		`SELECT seq, content FROM chunks
		 WHERE document_id = ? ORDER BY seq`,
		docID.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()
	var chunks []model.Chunk
	for rows.Next() {
		c := model.Chunk{DocumentID: docID}
		if err := rows.Scan(&c.Seq, &c.Content); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}
	return chunks, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	return ix.db.Close()
}
