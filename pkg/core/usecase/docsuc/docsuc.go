// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package docsuc contains the documents UseCase which supports the
// document management use cases:
//  1. Uploading a PDF document (validation, text extraction,
//     persistence, chunking, and indexing),
//  2. Listing documents,
//  3. Fetching one document's details,
//  4. Deleting a document alongside its file and indexed chunks.
package docsuc

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/core/cerr"
	"github.com/momeni/docproc/pkg/core/chunker"
	"github.com/momeni/docproc/pkg/core/log"
	"github.com/momeni/docproc/pkg/core/model"
	"github.com/momeni/docproc/pkg/core/repo"
)

// Extractor abstracts the PDF text extraction adapter.
// Validate reports a non-nil error for files which are not readable
// PDF documents with at least one page, and ExtractText returns the
// plain text contents of a validated PDF file.
type Extractor interface {
	Validate(path string) error
	ExtractText(path string) (string, error)
}

// ChunkIndex abstracts the local chunk index adapter. ReplaceChunks
// overwrites all indexed chunks of one document atomically and
// DeleteDocument removes them.
type ChunkIndex interface {
	ReplaceChunks(ctx context.Context, docID uuid.UUID, chunks []string) error
	DeleteDocument(ctx context.Context, docID uuid.UUID) error
}

// UseCase represents a documents use case. It holds a database
// connection pool, the documents repository instance (to be guided
// with the DB pool), the extraction and indexing adapters, and the
// documents use case specific settings.
type UseCase struct {
	pool      repo.Pool
	docsrp    repo.Documents
	extractor Extractor
	index     ChunkIndex

	chunker    *chunker.Chunker
	uploadDir  string
	previewLen int
}

// New instantiates a documents use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool, d repo.Documents, e Extractor, ix ChunkIndex,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{pool: p, docsrp: d, extractor: e, index: ix}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.chunker == nil {
		uc.chunker = chunker.New(0, -1, "", 0)
	}
	if uc.previewLen == 0 {
		uc.previewLen = 500
	}
	if uc.uploadDir == "" {
		uc.uploadDir = "data/uploads"
	}
	return uc, nil
}

// Upload use case processes an already saved upload. The path argument
// points at the saved temporary file and fileName is the client
// provided file name. The file is validated and moved under the
// uploads directory, keyed by the created document ID, and then its
// text is extracted; the document row is created beforehand, so
// extraction failures can be recorded on it (marking it failed)
// before the error is propagated. On success, the extracted text is
// persisted, chunked, and indexed, and the completed document model
// is returned.
func (docs *UseCase) Upload(
	ctx context.Context, path, fileName string,
) (doc *model.Document, err error) {
	if err := docs.extractor.Validate(path); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		doc, err = q.Create(ctx, fileName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("creating document row: %w", err)
	}
	stored, err := docs.storeFile(path, doc.ID)
	if err != nil {
		docs.markFailed(ctx, doc.ID, err)
		return nil, fmt.Errorf("storing uploaded file: %w", err)
	}
	text, xerr := docs.extractor.ExtractText(stored)
	if xerr != nil {
		docs.markFailed(ctx, doc.ID, xerr)
		return nil, fmt.Errorf("extracting text: %w", xerr)
	}
	err = docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		doc, err = q.SaveExtractedText(ctx, doc.ID, text)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("saving extracted text: %w", err)
	}
	chunks := docs.chunker.Chunk(text)
	if err := docs.index.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		docs.markFailed(ctx, doc.ID, err)
		return nil, fmt.Errorf("indexing %d chunks: %w", len(chunks), err)
	}
	log.Info(
		ctx, "document processed",
		log.UUID("document_id", doc.ID),
		slog.Int("text_length", len(text)),
		slog.Int("chunks", len(chunks)),
	)
	return doc, nil
}

// storeFile moves the saved temporary file under the uploads
// directory, named by the owning document ID. A cross-device rename
// failure falls back to a copy, so the uploads directory may live on
// a dedicated volume.
func (docs *UseCase) storeFile(path string, docID uuid.UUID) (string, error) {
	if err := os.MkdirAll(docs.uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %q: %w", docs.uploadDir, err)
	}
	stored := docs.storedPath(docID)
	if err := os.Rename(path, stored); err == nil {
		return stored, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}
	if err := os.WriteFile(stored, b, 0o644); err != nil {
		return "", fmt.Errorf("writing %q: %w", stored, err)
	}
	_ = os.Remove(path)
	return stored, nil
}

// storedPath returns the uploads directory path of the docID file.
func (docs *UseCase) storedPath(docID uuid.UUID) string {
	return filepath.Join(docs.uploadDir, docID.String()+".pdf")
}

// markFailed records the failure reason on the document row.
// Errors are logged and swallowed because the caller is already
// propagating the original failure.
func (docs *UseCase) markFailed(
	ctx context.Context, docID uuid.UUID, cause error,
) {
	err := docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		_, err := q.SetError(ctx, docID, cause.Error())
		return err
	})
	if err != nil {
		log.Warn(
			ctx, "cannot mark document as failed",
			log.UUID("document_id", docID),
			log.Err("error", err),
		)
	}
}

// Preview returns a prefix of the given text which is suitable for
// inclusion in an upload response, ellipsized when the text exceeds
// the configured preview length (counted in runes, so multi-byte
// characters are not cut in half).
func (docs *UseCase) Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= docs.previewLen {
		return text
	}
	return string(runes[:docs.previewLen]) + "..."
}

// List use case returns document summaries, newest first, skipping
// the first skip items and returning at most limit items.
func (docs *UseCase) List(
	ctx context.Context, skip, limit int,
) (dl []model.Document, err error) {
	if skip < 0 || limit <= 0 {
		return nil, cerr.BadRequest(
			errors.New("skip must be >= 0 and limit must be > 0"),
		)
	}
	err = docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		dl, err = q.List(ctx, skip, limit)
		return err
	})
	if err != nil {
		dl = nil
	}
	return
}

// Get use case returns the details of the docID document.
func (docs *UseCase) Get(
	ctx context.Context, docID uuid.UUID,
) (doc *model.Document, err error) {
	err = docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		doc, err = q.ByID(ctx, docID)
		return err
	})
	if err != nil {
		doc = nil
	}
	return
}

// Text use case returns the docID document with its extracted text.
// A document whose extraction has not completed yet, or failed, has
// no extracted text and yields a not-found error, so clients can
// distinguish "document exists" (via Get) from "text is available".
func (docs *UseCase) Text(
	ctx context.Context, docID uuid.UUID,
) (*model.Document, error) {
	doc, err := docs.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	if doc.ExtractedText == "" {
		return nil, cerr.NotFound(
			fmt.Errorf("document %s has no extracted text", docID),
		)
	}
	return doc, nil
}

// Delete use case removes the docID document row, its uploaded file
// (if it still exists), and its indexed chunks. A missing document
// row yields a not-found error; missing files and index entries are
// tolerated because they may be removed out of band.
func (docs *UseCase) Delete(ctx context.Context, docID uuid.UUID) error {
	err := docs.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		q := docs.docsrp.Conn(c)
		removed, err := q.Delete(ctx, docID)
		if err != nil {
			return err
		}
		if !removed {
			return cerr.NotFound(
				fmt.Errorf("no document with ID %s", docID),
			)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := docs.index.DeleteDocument(ctx, docID); err != nil {
		log.Warn(
			ctx, "cannot remove indexed chunks",
			log.UUID("document_id", docID),
			log.Err("error", err),
		)
	}
	p := docs.storedPath(docID)
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn(
			ctx, "cannot remove uploaded file",
			slog.String("path", p),
			log.Err("error", err),
		)
	}
	return nil
}
