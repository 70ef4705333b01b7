package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type DocumentRepository struct {
	base
}

func NewDocumentRepository(db *gormsqlite.DB, validator *domain.RecordValidator) *DocumentRepository {
	return &DocumentRepository{base: newBase(db, validator)}
}

// Create stores the body as given; escaping is the caller's job.
func (r *DocumentRepository) Create(ctx context.Context, doc domain.Document) (domain.Document, error) {
	ts := now()
	model := documentModel{Body: doc.Body, OwnerID: doc.OwnerID, CreatedAt: ts, ModifiedAt: ts}
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Document{}, translateWriteError(err, "create document")
	}
	return model.toDomain(), nil
}

func (r *DocumentRepository) Update(ctx context.Context, doc domain.Document) (domain.Document, error) {
	var model documentModel
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Where("id = ?", doc.ID).First(&model).Error; err != nil {
			return translateReadError(err, "load document")
		}
		model.Body = doc.Body
		model.ModifiedAt = now()
		return tx.Save(&model).Error
	})
	if err != nil {
		return domain.Document{}, translateWriteError(err, "update document")
	}
	return model.toDomain(), nil
}

func (r *DocumentRepository) Get(ctx context.Context, id int64) (domain.Document, error) {
	var model documentModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.Document{}, translateReadError(err, "get document")
	}
	return model.toDomain(), nil
}

func (r *DocumentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("id = ?", id).Delete(&documentModel{})
		if res.Error != nil {
			return fmt.Errorf("delete document: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		return deleteCommentsFor(tx.DB, domain.TargetDocument, id)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *DocumentRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	var models []documentModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return pageQuery(tx.Model(&documentModel{}), filter, true).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := make([]domain.Document, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}
