package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/ports"
	"github.com/atvirokodosprendimai/seqnotes/internal/logger"
)

type SequenceService struct {
	repo      ports.SequenceRepository
	users     ports.UserRepository
	validator *domain.RecordValidator
}

func NewSequenceService(repo ports.SequenceRepository, users ports.UserRepository, validator *domain.RecordValidator) *SequenceService {
	return &SequenceService{repo: repo, users: users, validator: validator}
}

func (s *SequenceService) Create(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error) {
	rec.ID = 0
	if err := s.validate(ctx, rec); err != nil {
		return domain.SequenceRecord{}, err
	}
	if err := ownerExists(ctx, s.users, rec.OwnerID); err != nil {
		return domain.SequenceRecord{}, err
	}
	return s.repo.Create(ctx, rec)
}

func (s *SequenceService) Get(ctx context.Context, id int64) (domain.SequenceRecord, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.SequenceRecord{}, err
	}
	return s.repo.Get(ctx, id)
}

// Edit replaces both sequences and re-runs validation against the merged
// record. Owner and creation time are kept.
func (s *SequenceService) Edit(ctx context.Context, id int64, edit domain.SequenceEdit) (domain.SequenceRecord, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return domain.SequenceRecord{}, err
	}
	next := current.Apply(edit)
	if err := s.validate(ctx, next); err != nil {
		return domain.SequenceRecord{}, err
	}
	return s.repo.Update(ctx, next)
}

func (s *SequenceService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *SequenceService) List(ctx context.Context, filter domain.ListFilter) ([]domain.SequenceRecord, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter.Normalize())
}

func (s *SequenceService) validate(ctx context.Context, rec domain.SequenceRecord) error {
	if err := s.validator.ValidateSequence(rec); err != nil {
		logRejection(ctx, "sequence", rec.ID, err)
		return err
	}
	return nil
}

func logRejection(ctx context.Context, entity string, id int64, err error) {
	evt := logger.FromContext(ctx).Debug().Str("entity", entity).Int64("id", id)
	if fe, ok := domain.AsFieldError(err); ok {
		evt = evt.Str("field", fe.Field).Str("code", fe.Code)
	}
	evt.Msg("record rejected")
}
