package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type SequenceRepository struct {
	base
}

func NewSequenceRepository(db *gormsqlite.DB, validator *domain.RecordValidator) *SequenceRepository {
	return &SequenceRepository{base: newBase(db, validator)}
}

func (r *SequenceRepository) Create(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error) {
	ts := now()
	model := sequenceModel{
		ProteinSequence: rec.ProteinSequence,
		DNASequence:     rec.DNASequence,
		OwnerID:         rec.OwnerID,
		CreatedAt:       ts,
		ModifiedAt:      ts,
	}
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.SequenceRecord{}, translateWriteError(err, "create sequence")
	}
	return model.toDomain(), nil
}

// Update rewrites both sequences of an existing record and bumps
// modified_at. Owner and created_at are never changed here.
func (r *SequenceRepository) Update(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error) {
	var model sequenceModel
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Where("id = ?", rec.ID).First(&model).Error; err != nil {
			return translateReadError(err, "load sequence")
		}
		model.ProteinSequence = rec.ProteinSequence
		model.DNASequence = rec.DNASequence
		model.ModifiedAt = now()
		return tx.Save(&model).Error
	})
	if err != nil {
		return domain.SequenceRecord{}, translateWriteError(err, "update sequence")
	}
	return model.toDomain(), nil
}

func (r *SequenceRepository) Get(ctx context.Context, id int64) (domain.SequenceRecord, error) {
	var model sequenceModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.SequenceRecord{}, translateReadError(err, "get sequence")
	}
	return model.toDomain(), nil
}

func (r *SequenceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("id = ?", id).Delete(&sequenceModel{})
		if res.Error != nil {
			return fmt.Errorf("delete sequence: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		if !deleted {
			return nil
		}
		return deleteCommentsFor(tx.DB, domain.TargetSequence, id)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *SequenceRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.SequenceRecord, error) {
	var models []sequenceModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return pageQuery(tx.Model(&sequenceModel{}), filter, true).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list sequences: %w", err)
	}

	result := make([]domain.SequenceRecord, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}
