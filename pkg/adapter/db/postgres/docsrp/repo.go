// Package docsrp provides the PostgreSQL repository of the documents,
// implementing the repo.Documents interface. Query functions are
// generic over the postgres.Queryer type set, so each one can run on
// a standalone connection or within a caller provided transaction.
package docsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/adapter/db/postgres"
	"github.com/momeni/docproc/pkg/core/model"
	"github.com/momeni/docproc/pkg/core/repo"
)

type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (docs *Repo) Conn(c repo.Conn) repo.DocumentsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) Create(ctx context.Context, fileName string) (*model.Document, error) {
	return Create(ctx, cq.Conn, fileName)
}

func (cq connQueryer) ByID(ctx context.Context, docID uuid.UUID) (*model.Document, error) {
	return ByID(ctx, cq.Conn, docID)
}

func (cq connQueryer) List(ctx context.Context, skip, limit int) ([]model.Document, error) {
	return List(ctx, cq.Conn, skip, limit)
}

func (cq connQueryer) SaveExtractedText(ctx context.Context, docID uuid.UUID, text string) (*model.Document, error) {
	return SaveExtractedText(ctx, cq.Conn, docID, text)
}

func (cq connQueryer) SetError(ctx context.Context, docID uuid.UUID, errMsg string) (*model.Document, error) {
	return SetError(ctx, cq.Conn, docID, errMsg)
}

func (cq connQueryer) Delete(ctx context.Context, docID uuid.UUID) (bool, error) {
	return Delete(ctx, cq.Conn, docID)
}

type txQueryer struct {
	*postgres.Tx
}

func (docs *Repo) Tx(tx repo.Tx) repo.DocumentsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) Create(ctx context.Context, fileName string) (*model.Document, error) {
	return Create(ctx, tq.Tx, fileName)
}

func (tq txQueryer) ByID(ctx context.Context, docID uuid.UUID) (*model.Document, error) {
	return ByID(ctx, tq.Tx, docID)
}

func (tq txQueryer) List(ctx context.Context, skip, limit int) ([]model.Document, error) {
	return List(ctx, tq.Tx, skip, limit)
}

func (tq txQueryer) SaveExtractedText(ctx context.Context, docID uuid.UUID, text string) (*model.Document, error) {
	return SaveExtractedText(ctx, tq.Tx, docID, text)
}

func (tq txQueryer) SetError(ctx context.Context, docID uuid.UUID, errMsg string) (*model.Document, error) {
	return SetError(ctx, tq.Tx, docID, errMsg)
}

func (tq txQueryer) Delete(ctx context.Context, docID uuid.UUID) (bool, error) {
	return Delete(ctx, tq.Tx, docID)
}
