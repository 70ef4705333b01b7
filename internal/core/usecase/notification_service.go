package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/ports"
)

type NotificationService struct {
	repo      ports.NotificationRepository
	validator *domain.RecordValidator
}

func NewNotificationService(repo ports.NotificationRepository, validator *domain.RecordValidator) *NotificationService {
	return &NotificationService{repo: repo, validator: validator}
}

func (s *NotificationService) Create(ctx context.Context, kind domain.NotificationKind, message string) (domain.Notification, error) {
	n := domain.Notification{Kind: kind, Message: message}
	if err := s.validator.ValidateNotification(n); err != nil {
		logRejection(ctx, "notification", 0, err)
		return domain.Notification{}, err
	}
	return s.repo.Create(ctx, n)
}

func (s *NotificationService) Get(ctx context.Context, id int64) (domain.Notification, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Notification{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *NotificationService) Edit(ctx context.Context, id int64, kind domain.NotificationKind, message string) (domain.Notification, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return domain.Notification{}, err
	}
	n.Kind = kind
	n.Message = message
	if err := s.validator.ValidateNotification(n); err != nil {
		logRejection(ctx, "notification", id, err)
		return domain.Notification{}, err
	}
	return s.repo.Update(ctx, n)
}

func (s *NotificationService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Notification, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	filter.OwnerID = 0
	return s.repo.List(ctx, filter.Normalize())
}
