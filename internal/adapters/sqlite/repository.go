package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"gorm.io/gorm"
)

// base is embedded by every repository: the connection pair plus the
// validator the save hooks run.
type base struct {
	db        *gormsqlite.DB
	validator *domain.RecordValidator
}

func newBase(db *gormsqlite.DB, validator *domain.RecordValidator) base {
	if validator == nil {
		validator = domain.NewRecordValidator(domain.LengthRuleCodon)
	}
	return base{db: db, validator: validator}
}

func (b base) write(ctx context.Context, fn func(tx *gormsqlite.Tx) error) error {
	return b.db.WriteTX(withValidator(ctx, b.validator), fn)
}

func (b base) read(ctx context.Context, fn func(tx *gormsqlite.Tx) error) error {
	return b.db.ReadTX(ctx, fn)
}

// translateWriteError maps constraint failures reported by SQLite onto
// field errors. Field errors raised by hooks pass through untouched.
func translateWriteError(err error, op string) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsFieldError(err); ok {
		return err
	}
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return domain.InvalidReference(domain.FieldOwner)
	case strings.Contains(msg, "UNIQUE constraint failed: users.username"):
		return domain.Duplicate("username")
	}
	return fmt.Errorf("%s: %w", op, err)
}

func translateReadError(err error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

// pageQuery applies cursor, owner and limit to a creation-ordered listing.
func pageQuery(query *gorm.DB, filter domain.ListFilter, ownerColumn bool) *gorm.DB {
	if ownerColumn && filter.OwnerID > 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.AfterID > 0 {
		query = query.Where("id > ?", filter.AfterID)
	}
	return query.Order("created_at ASC").Order("id ASC").Limit(filter.Limit)
}

// deleteCommentsFor removes every comment attached to the given targets.
func deleteCommentsFor(tx *gorm.DB, targetType domain.TargetType, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}
	err := tx.Where("target_type = ? AND target_id IN ?", string(targetType), ids).
		Delete(&commentModel{}).Error
	if err != nil {
		return fmt.Errorf("delete %s comments: %w", targetType, err)
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}
