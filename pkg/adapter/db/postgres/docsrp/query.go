package docsrp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/docproc/pkg/adapter/db/postgres"
	"github.com/momeni/docproc/pkg/core/cerr"
	"github.com/momeni/docproc/pkg/core/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gDocument struct {
	ID            uuid.UUID `gorm:"primaryKey;type:uuid;column:id"`
	FileName      string
	ExtractedText string
	Status        string
	ErrorMessage  string
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

func (gd *gDocument) TableName() string {
	return "documents"
}

func (gd *gDocument) Model() (*model.Document, error) {
	status, err := model.ParseProcessingStatus(gd.Status)
	if err != nil {
		return nil, fmt.Errorf("document %s: %w", gd.ID, err)
	}
	return &model.Document{
		ID:            gd.ID,
		FileName:      gd.FileName,
		ExtractedText: gd.ExtractedText,
		Status:        status,
		ErrorMessage:  gd.ErrorMessage,
		CreatedAt:     gd.CreatedAt,
		ProcessedAt:   gd.ProcessedAt,
	}, nil
}

func Create[Q postgres.Queryer](ctx context.Context, q Q, fileName string) (*model.Document, error) {
	gdb := q.GORM(ctx)
	gd := gDocument{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    model.StatusPending.String(),
		CreatedAt: time.Now().UTC(),
	}
	if err := gdb.Create(&gd).Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	return gd.Model()
}

func ByID[Q postgres.Queryer](ctx context.Context, q Q, docID uuid.UUID) (*model.Document, error) {
	gdb := q.GORM(ctx)
	var gd gDocument
	err := gdb.Where("id=?", docID).Take(&gd).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, cerr.NotFound(
			fmt.Errorf("no document with ID %s", docID),
		)
	case err != nil:
		return nil, fmt.Errorf("query: %w", err)
	}
	return gd.Model()
}

func List[Q postgres.Queryer](ctx context.Context, q Q, skip, limit int) ([]model.Document, error) {
	gdb := q.GORM(ctx)
	var gds []gDocument
	err := gdb.Model(&gDocument{}).Order(
		"created_at DESC",
	).Offset(skip).Limit(limit).Find(&gds).Error
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	dl := make([]model.Document, 0, len(gds))
	for i := range gds {
		d, err := gds[i].Model()
		if err != nil {
			return nil, err
		}
		dl = append(dl, *d)
	}
	return dl, nil
}

func SaveExtractedText[Q postgres.Queryer](ctx context.Context, q Q, docID uuid.UUID, text string) (*model.Document, error) {
	now := time.Now().UTC()
	return update(ctx, q, docID, []string{
		"extracted_text", "status", "error_message", "processed_at",
	}, map[string]any{
		"extracted_text": text,
		"status":         model.StatusCompleted.String(),
		"error_message":  "",
		"processed_at":   &now,
	})
}

func SetError[Q postgres.Queryer](ctx context.Context, q Q, docID uuid.UUID, errMsg string) (*model.Document, error) {
	now := time.Now().UTC()
	return update(ctx, q, docID, []string{
		"status", "error_message", "processed_at",
	}, map[string]any{
		"status":        model.StatusFailed.String(),
		"error_message": errMsg,
		"processed_at":  &now,
	})
}

func update[Q postgres.Queryer](ctx context.Context, q Q, docID uuid.UUID, cols []string, vals map[string]any) (*model.Document, error) {
	gdb := q.GORM(ctx)
	var gd []gDocument
	gdb.Model(&gd).Clauses(clause.Returning{}).Select(
		cols,
	).Where(
		"id=?", docID,
	).Updates(vals)
	if err := gdb.Error; err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	if n := len(gd); n != 1 {
		return nil, cerr.NotFound(
			fmt.Errorf("expected one row, but got %d", n),
		)
	}
	return gd[0].Model()
}

func Delete[Q postgres.Queryer](ctx context.Context, q Q, docID uuid.UUID) (bool, error) {
	n, err := q.Exec(ctx, `DELETE FROM documents WHERE id=$1`, docID)
	if err != nil {
		return false, fmt.Errorf("query: %w", err)
	}
	return n == 1, nil
}
