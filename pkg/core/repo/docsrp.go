package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/core/model"
)

type DocumentsConnQueryer interface {
	DocumentsQueryer
}

type DocumentsTxQueryer interface {
	DocumentsQueryer
}

type DocumentsQueryer interface {
	Create(ctx context.Context, fileName string) (*model.Document, error)
	ByID(ctx context.Context, docID uuid.UUID) (*model.Document, error)
	List(ctx context.Context, skip, limit int) ([]model.Document, error)
	SaveExtractedText(ctx context.Context, docID uuid.UUID, text string) (*model.Document, error)
	SetError(ctx context.Context, docID uuid.UUID, errMsg string) (*model.Document, error)
	Delete(ctx context.Context, docID uuid.UUID) (bool, error)
}

type Documents interface {
	Conn(Conn) DocumentsConnQueryer
	Tx(Tx) DocumentsTxQueryer
}
