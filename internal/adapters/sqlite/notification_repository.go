package sqlite

import (
	"context"
	"fmt"

	"github.com/atvirokodosprendimai/seqnotes/internal/adapters/sqlite/gormsqlite"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type NotificationRepository struct {
	base
}

func NewNotificationRepository(db *gormsqlite.DB, validator *domain.RecordValidator) *NotificationRepository {
	return &NotificationRepository{base: newBase(db, validator)}
}

func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	ts := now()
	model := notificationModel{Kind: string(n.Kind), Message: n.Message, CreatedAt: ts, ModifiedAt: ts}
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Create(&model).Error
	})
	if err != nil {
		return domain.Notification{}, translateWriteError(err, "create notification")
	}
	return model.toDomain(), nil
}

func (r *NotificationRepository) Update(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	var model notificationModel
	err := r.write(ctx, func(tx *gormsqlite.Tx) error {
		if err := tx.Where("id = ?", n.ID).First(&model).Error; err != nil {
			return translateReadError(err, "load notification")
		}
		model.Kind = string(n.Kind)
		model.Message = n.Message
		model.ModifiedAt = now()
		return tx.Save(&model).Error
	})
	if err != nil {
		return domain.Notification{}, translateWriteError(err, "update notification")
	}
	return model.toDomain(), nil
}

func (r *NotificationRepository) Get(ctx context.Context, id int64) (domain.Notification, error) {
	var model notificationModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return tx.Where("id = ?", id).First(&model).Error
	})
	if err != nil {
		return domain.Notification{}, translateReadError(err, "get notification")
	}
	return model.toDomain(), nil
}

func (r *NotificationRepository) List(ctx context.Context, filter domain.ListFilter) ([]domain.Notification, error) {
	var models []notificationModel
	err := r.read(ctx, func(tx *gormsqlite.Tx) error {
		return pageQuery(tx.Model(&notificationModel{}), filter, false).Find(&models).Error
	})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	result := make([]domain.Notification, 0, len(models))
	for _, m := range models {
		result = append(result, m.toDomain())
	}
	return result, nil
}
