package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type UserRepository struct {
	base
}

func NewUserRepository(db *gormsqlite.DB) *UserRepository {
	return &UserRepository{base: newBase(db, nil)}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	model := userModel{Username: user.Username, CreatedAt: now()}
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.User{}, translateWriteError(err, "create user")
	}
	return model.toDomain(), nil
}

func (r *UserRepository) Get(ctx context.Context, id int64) (domain.User, error) {
	var model userModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.User{}, translateReadError(err, "get user")
	}
	return model.toDomain(), nil
}

// Delete removes the user. Owned sequences, documents and comments go with
// it through ON DELETE CASCADE; comments other users left on the owned
// sequences and documents have no foreign key and are removed here.
func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		var sequenceIDs []int64
		if err := tx.Model(&sequenceModel{}).Where("owner_id = ?", id).Pluck("id", &sequenceIDs).Error; err != nil {
			return fmt.Errorf("list owned sequences: %w", err)
		}
		var documentIDs []int64
		if err := tx.Model(&documentModel{}).Where("owner_id = ?", id).Pluck("id", &documentIDs).Error; err != nil {
			return fmt.Errorf("list owned documents: %w", err)
		}
		if err := deleteCommentsFor(tx.DB, domain.TargetSequence, sequenceIDs...); err != nil {
			return err
		}
		if err := deleteCommentsFor(tx.DB, domain.TargetDocument, documentIDs...); err != nil {
			return err
		}

		res := tx.Where("id = ?", id).Delete(&userModel{})
		if res.Error != nil {
			return fmt.Errorf("delete user: %w", res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}
