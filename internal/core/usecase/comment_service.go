package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/ports"
)

type CommentService struct {
	repo      ports.CommentRepository
	users     ports.UserRepository
	targets   ports.TargetResolver
	validator *domain.RecordValidator
}

func NewCommentService(repo ports.CommentRepository, users ports.UserRepository, targets ports.TargetResolver, validator *domain.RecordValidator) *CommentService {
	return &CommentService{repo: repo, users: users, targets: targets, validator: validator}
}

func (s *CommentService) Create(ctx context.Context, ownerID int64, target domain.Target, body string) (domain.Comment, error) {
	c := domain.Comment{
		TextNote: domain.TextNote{Body: domain.EscapeText(body), OwnerID: ownerID},
		Target:   target,
	}
	if err := s.validator.ValidateComment(c); err != nil {
		logRejection(ctx, "comment", 0, err)
		return domain.Comment{}, err
	}
	if err := ownerExists(ctx, s.users, ownerID); err != nil {
		return domain.Comment{}, err
	}
	ok, err := s.targets.Exists(ctx, target)
	if err != nil {
		return domain.Comment{}, err
	}
	if !ok {
		return domain.Comment{}, domain.InvalidReference(domain.FieldTargetID)
	}
	return s.repo.Create(ctx, c)
}

func (s *CommentService) Get(ctx context.Context, id int64) (domain.Comment, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Comment{}, err
	}
	return s.repo.Get(ctx, id)
}

// Edit replaces the body only; a comment never moves to another target.
func (s *CommentService) Edit(ctx context.Context, id int64, body string) (domain.Comment, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return domain.Comment{}, err
	}
	c.Body = domain.EscapeText(body)
	if err := s.validator.ValidateComment(c); err != nil {
		logRejection(ctx, "comment", id, err)
		return domain.Comment{}, err
	}
	return s.repo.Update(ctx, c)
}

func (s *CommentService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *CommentService) ListForTarget(ctx context.Context, target domain.Target, filter domain.ListFilter) ([]domain.Comment, error) {
	if !target.Type.Valid() || target.ID <= 0 {
		return nil, domain.ErrInvalidFilter
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.ListForTarget(ctx, target, filter.Normalize())
}
