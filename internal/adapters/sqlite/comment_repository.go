package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"gorm.io/gorm"
)

type CommentRepository struct {
	base
}

func NewCommentRepository(db *gormsqlite.DB, validator *domain.RecordValidator) *CommentRepository {
	return &CommentRepository{base: newBase(db, validator)}
}

func (r *CommentRepository) Create(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	ts := now()
	model := commentModel{
		Body:       c.Body,
		TargetType: string(c.Target.Type),
		TargetID:   c.Target.ID,
		OwnerID:    c.OwnerID,
		CreatedAt:  ts,
		ModifiedAt: ts,
	}
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		// Targets have no foreign key; check inside the write so a
		// concurrent delete cannot leave an orphan.
		if c.Target.Type.Valid() {
			ok, err := targetExists(tx.DB, c.Target)
			if err != nil {
				return err
			}
			if !ok {
				return domain.InvalidReference(domain.FieldTargetID)
			}
		}
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Comment{}, translateWriteError(err, "create comment")
	}
	return model.toDomain(), nil
}

func (r *CommentRepository) Update(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	var model commentModel
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Where("id = ?", c.ID).First(&model).Error; err != nil {
			return translateReadError(err, "load comment")
		}
		model.Body = c.Body
		model.ModifiedAt = now()
		return tx.Save(&model).Error
	})
	if err != nil {
		return domain.Comment{}, translateWriteError(err, "update comment")
	}
	return model.toDomain(), nil
}

func (r *CommentRepository) Get(ctx context.Context, id int64) (domain.Comment, error) {
	var model commentModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.Comment{}, translateReadError(err, "get comment")
	}
	return model.toDomain(), nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		res := tx.Where("id = ?", id).Delete(&commentModel{})
		if res.Error != nil {
			return fmt.Errorf("delete comment: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *CommentRepository) ListForTarget(ctx context.Context, target domain.Target, filter domain.ListFilter) ([]domain.Comment, error) {
	var models []commentModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		query := tx.Model(&commentModel{}).
			Where("target_type = ? AND target_id = ?", string(target.Type), target.ID)
		return pageQuery(query, filter, true).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	result := make([]domain.Comment, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}

// TargetResolver checks polymorphic comment targets against their tables.
type TargetResolver struct {
	db *gormsqlite.DB
}

func NewTargetResolver(db *gormsqlite.DB) *TargetResolver {
	return &TargetResolver{db: db}
}

func (r *TargetResolver) Exists(ctx context.Context, target domain.Target) (bool, error) {
	var ok bool
	err := r.db.ReadTX(ctx, func(tx *gormsqlite.Tx) error {
		var err error
		ok, err = targetExists(tx.DB, target)
		return err
	})
	return ok, err
}

func targetExists(tx *gorm.DB, target domain.Target) (bool, error) {
	var model any
	switch target.Type {
	case domain.TargetSequence:
		model = &sequenceModel{}
	case domain.TargetDocument:
		model = &documentModel{}
	default:
		return false, nil
	}

	var count int64
	if err := tx.Model(model).Where("id = ?", target.ID).Count(&count).Error; err != nil {
		return false, fmt.Errorf("resolve %s target: %w", target.Type, err)
	}
	return count > 0, nil
}
