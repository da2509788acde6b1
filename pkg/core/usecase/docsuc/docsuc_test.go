// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package docsuc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/core/cerr"
	"github.com/momeni/docproc/pkg/core/model"
	"github.com/momeni/docproc/pkg/core/repo"
	"github.com/momeni/docproc/pkg/core/usecase/docsuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
}

func (c *fakeConn) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return 0, errors.New("not implemented")
}

func (c *fakeConn) Query(ctx context.Context, sql string, args ...any) (repo.Rows, error) {
	return nil, errors.New("not implemented")
}

func (c *fakeConn) Tx(ctx context.Context, handler repo.TxHandler) error {
	return errors.New("not implemented")
}

func (c *fakeConn) IsConn() {
}

type fakePool struct {
	conn fakeConn
}

func (p *fakePool) Conn(ctx context.Context, handler repo.ConnHandler) error {
	return handler(ctx, &p.conn)
}

func (p *fakePool) Close() error {
	return nil
}

// fakeDocsRepo keeps documents in memory, implementing the
// repo.Documents interface for both connection and transaction
// queryers.
type fakeDocsRepo struct {
	docs map[uuid.UUID]*model.Document
}

func newFakeDocsRepo() *fakeDocsRepo {
	return &fakeDocsRepo{docs: make(map[uuid.UUID]*model.Document)}
}

func (r *fakeDocsRepo) Conn(repo.Conn) repo.DocumentsConnQueryer {
	return r
}

func (r *fakeDocsRepo) Tx(repo.Tx) repo.DocumentsTxQueryer {
	return r
}

func (r *fakeDocsRepo) Create(ctx context.Context, fileName string) (*model.Document, error) {
	d := &model.Document{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    model.StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	r.docs[d.ID] = d
	return d, nil
}

func (r *fakeDocsRepo) ByID(ctx context.Context, docID uuid.UUID) (*model.Document, error) {
	d, ok := r.docs[docID]
	if !ok {
		return nil, cerr.NotFound(errors.New("no such document"))
	}
	return d, nil
}

func (r *fakeDocsRepo) List(ctx context.Context, skip, limit int) ([]model.Document, error) {
	var dl []model.Document
	for _, d := range r.docs {
		dl = append(dl, *d)
	}
	return dl, nil
}

func (r *fakeDocsRepo) SaveExtractedText(ctx context.Context, docID uuid.UUID, text string) (*model.Document, error) {
	d, ok := r.docs[docID]
	if !ok {
		return nil, cerr.NotFound(errors.New("no such document"))
	}
	now := time.Now().UTC()
	d.ExtractedText = text
	d.Status = model.StatusCompleted
	d.ProcessedAt = &now
	return d, nil
}

func (r *fakeDocsRepo) SetError(ctx context.Context, docID uuid.UUID, errMsg string) (*model.Document, error) {
	d, ok := r.docs[docID]
	if !ok {
		return nil, cerr.NotFound(errors.New("no such document"))
	}
	d.Status = model.StatusFailed
	d.ErrorMessage = errMsg
	return d, nil
}

func (r *fakeDocsRepo) Delete(ctx context.Context, docID uuid.UUID) (bool, error) {
	if _, ok := r.docs[docID]; !ok {
		return false, nil
	}
	delete(r.docs, docID)
	return true, nil
}

type fakeExtractor struct {
	validateErr error
	text        string
	extractErr  error
}

func (e *fakeExtractor) Validate(path string) error {
	return e.validateErr
}

func (e *fakeExtractor) ExtractText(path string) (string, error) {
	return e.text, e.extractErr
}

type fakeIndex struct {
	chunks     map[uuid.UUID][]string
	replaceErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{chunks: make(map[uuid.UUID][]string)}
}

func (ix *fakeIndex) ReplaceChunks(ctx context.Context, docID uuid.UUID, chunks []string) error {
	if ix.replaceErr != nil {
		return ix.replaceErr
	}
	ix.chunks[docID] = chunks
	return nil
}

func (ix *fakeIndex) DeleteDocument(ctx context.Context, docID uuid.UUID) error {
	delete(ix.chunks, docID)
	return nil
}

func writeTempFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func newUseCase(
	t *testing.T, repos *fakeDocsRepo, e *fakeExtractor, ix *fakeIndex,
) *docsuc.UseCase {
	t.Helper()
	uc, err := docsuc.New(
		&fakePool{}, repos, e, ix,
		docsuc.WithUploadDir(filepath.Join(t.TempDir(), "uploads")),
		docsuc.WithChunking(10, 0, "\n", 100),
		docsuc.WithPreviewLength(5),
	)
	require.NoError(t, err)
	return uc
}

func TestUploadHappyPath(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	ix := newFakeIndex()
	e := &fakeExtractor{text: "first line\nsecond line"}
	uc := newUseCase(t, repos, e, ix)

	path := writeTempFile(t, "%PDF-fake")
	doc, err := uc.Upload(ctx, path, "report.pdf")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, doc.Status)
	assert.Equal(t, "report.pdf", doc.FileName)
	assert.Equal(t, "first line\nsecond line", doc.ExtractedText)
	assert.NotNil(t, doc.ProcessedAt)
	assert.Len(t, ix.chunks[doc.ID], 2)
	// the temporary file is moved under the uploads directory
	_, err = os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestUploadInvalidFile(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	e := &fakeExtractor{validateErr: errors.New("not a pdf")}
	uc := newUseCase(t, repos, e, newFakeIndex())

	_, err := uc.Upload(ctx, writeTempFile(t, "junk"), "junk.pdf")
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.HTTPStatusCode)
	assert.Empty(t, repos.docs, "no document row must be created")
}

func TestUploadExtractionFailureMarksDocumentFailed(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	e := &fakeExtractor{extractErr: errors.New("encrypted document")}
	uc := newUseCase(t, repos, e, newFakeIndex())

	_, err := uc.Upload(ctx, writeTempFile(t, "%PDF-fake"), "enc.pdf")
	require.ErrorContains(t, err, "encrypted document")
	require.Len(t, repos.docs, 1)
	for _, d := range repos.docs {
		assert.Equal(t, model.StatusFailed, d.Status)
		assert.Equal(t, "encrypted document", d.ErrorMessage)
	}
}

func TestUploadIndexingFailureMarksDocumentFailed(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	ix := newFakeIndex()
	ix.replaceErr = errors.New("index is read-only")
	e := &fakeExtractor{text: "some text"}
	uc := newUseCase(t, repos, e, ix)

	_, err := uc.Upload(ctx, writeTempFile(t, "%PDF-fake"), "doc.pdf")
	require.ErrorContains(t, err, "index is read-only")
	for _, d := range repos.docs {
		assert.Equal(t, model.StatusFailed, d.Status)
	}
}

func TestListRejectsInvalidPagination(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(
		t, newFakeDocsRepo(), &fakeExtractor{}, newFakeIndex(),
	)
	_, err := uc.List(ctx, -1, 10)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 400, ce.HTTPStatusCode)

	_, err = uc.List(ctx, 0, 0)
	require.ErrorAs(t, err, &ce)
}

func TestTextReturnsExtractedText(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	e := &fakeExtractor{text: "first line\nsecond line"}
	uc := newUseCase(t, repos, e, newFakeIndex())

	doc, err := uc.Upload(ctx, writeTempFile(t, "%PDF-fake"), "r.pdf")
	require.NoError(t, err)
	got, err := uc.Text(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "first line\nsecond line", got.ExtractedText)
}

func TestTextWithoutExtractedTextIsNotFound(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	uc := newUseCase(t, repos, &fakeExtractor{}, newFakeIndex())

	// a pending document has no extracted text yet
	d, err := repos.Create(ctx, "pending.pdf")
	require.NoError(t, err)
	_, err = uc.Text(ctx, d.ID)
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.HTTPStatusCode)

	_, err = uc.Text(ctx, uuid.New())
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.HTTPStatusCode)
}

func TestDeleteUnknownDocument(t *testing.T) {
	ctx := context.Background()
	uc := newUseCase(
		t, newFakeDocsRepo(), &fakeExtractor{}, newFakeIndex(),
	)
	err := uc.Delete(ctx, uuid.New())
	var ce *cerr.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 404, ce.HTTPStatusCode)
}

func TestDeleteRemovesChunksAndFile(t *testing.T) {
	ctx := context.Background()
	repos := newFakeDocsRepo()
	ix := newFakeIndex()
	e := &fakeExtractor{text: "text"}
	uc := newUseCase(t, repos, e, ix)

	doc, err := uc.Upload(ctx, writeTempFile(t, "%PDF-fake"), "d.pdf")
	require.NoError(t, err)
	require.NoError(t, uc.Delete(ctx, doc.ID))
	assert.Empty(t, repos.docs)
	assert.Empty(t, ix.chunks)
}

func TestPreviewEllipsizesLongTexts(t *testing.T) {
	uc := newUseCase(
		t, newFakeDocsRepo(), &fakeExtractor{}, newFakeIndex(),
	)
	assert.Equal(t, "short", uc.Preview("short"))
	long := strings.Repeat("x", 20)
	assert.Equal(t, "xxxxx...", uc.Preview(long))
}
