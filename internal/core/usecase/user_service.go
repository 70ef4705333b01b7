package usecase

import (
	"context"
	"errors"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/ports"
)

type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Create(ctx context.Context, username string) (domain.User, error) {
	user := domain.User{Username: username}
	if err := user.Validate(); err != nil {
		return domain.User{}, err
	}
	return s.repo.Create(ctx, user)
}

func (s *UserService) Get(ctx context.Context, id int64) (domain.User, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.User{}, err
	}
	return s.repo.Get(ctx, id)
}

// Delete removes the user together with everything they own.
func (s *UserService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, err
	}
	return s.repo.Delete(ctx, id)
}

// ownerExists maps a missing owner to a field error on owner_id.
func ownerExists(ctx context.Context, users ports.UserRepository, ownerID int64) error {
	if _, err := users.Get(ctx, ownerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.InvalidReference(domain.FieldOwner)
		}
		return err
	}
	return nil
}
