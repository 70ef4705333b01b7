package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"github.com/atvirokodosprendimai/seqnotes/internal/core/ports"
)

type DocumentService struct {
	repo      ports.DocumentRepository
	users     ports.UserRepository
	validator *domain.RecordValidator
}

func NewDocumentService(repo ports.DocumentRepository, users ports.UserRepository, validator *domain.RecordValidator) *DocumentService {
	return &DocumentService{repo: repo, users: users, validator: validator}
}

// Create escapes the raw body once and stores the document.
func (s *DocumentService) Create(ctx context.Context, ownerID int64, body string) (domain.Document, error) {
	doc := domain.Document{TextNote: domain.TextNote{
		Body:    domain.EscapeText(body),
		OwnerID: ownerID,
	}}
	if err := s.validator.ValidateDocument(doc); err != nil {
		logRejection(ctx, "document", 0, err)
		return domain.Document{}, err
	}
	if err := ownerExists(ctx, s.users, ownerID); err != nil {
		return domain.Document{}, err
	}
	return s.repo.Create(ctx, doc)
}

func (s *DocumentService) Get(ctx context.Context, id int64) (domain.Document, error) {
	if err := domain.ValidateID(id); err != nil {
		return domain.Document{}, err
	}
	return s.repo.Get(ctx, id)
}

// Edit replaces the body with the escaped form of a new raw body.
func (s *DocumentService) Edit(ctx context.Context, id int64, body string) (domain.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	doc.Body = domain.EscapeText(body)
	if err := s.validator.ValidateDocument(doc); err != nil {
		logRejection(ctx, "document", id, err)
		return domain.Document{}, err
	}
	return s.repo.Update(ctx, doc)
}

func (s *DocumentService) Delete(ctx context.Context, id int64) (bool, error) {
	if err := domain.ValidateID(id); err != nil {
		return false, err
	}
	return s.repo.Delete(ctx, id)
}

func (s *DocumentService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.repo.List(ctx, filter.Normalize())
}
