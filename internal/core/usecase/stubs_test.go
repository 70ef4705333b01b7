package usecase

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type stubUserRepo struct {
	users    map[int64]domain.User
	deleteFn func(ctx context.Context, id int64) (bool, error)
}

func newStubUserRepo(ids ...int64) *stubUserRepo {
	r := &stubUserRepo{users: map[int64]domain.User{}}
	for _, id := range ids {
		r.users[id] = domain.User{ID: id, Username: "user"}
	}
	return r
}

func (s *stubUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	user.ID = int64(len(s.users) + 1)
	s.users[user.ID] = user
	return user, nil
}

func (s *stubUserRepo) Get(_ context.Context, id int64) (domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id int64) (bool, error) {
	if s.deleteFn != nil {
		return s.deleteFn(ctx, id)
	}
	_, ok := s.users[id]
	delete(s.users, id)
	return ok, nil
}

type stubSequenceRepo struct {
	createFn func(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error)
	updateFn func(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error)
	getFn    func(ctx context.Context, id int64) (domain.SequenceRecord, error)
	listFn   func(ctx context.Context, filter domain.ListFilter) ([]domain.SequenceRecord, error)
}

func (s *stubSequenceRepo) Create(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error) {
	if s.createFn != nil {
		return s.createFn(ctx, rec)
	}
	rec.ID = 1
	return rec, nil
}

func (s *stubSequenceRepo) Update(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, rec)
	}
	return rec, nil
}

func (s *stubSequenceRepo) Get(ctx context.Context, id int64) (domain.SequenceRecord, error) {
	if s.getFn != nil {
		return s.getFn(ctx, id)
	}
	return domain.SequenceRecord{}, domain.ErrNotFound
}

func (s *stubSequenceRepo) Delete(context.Context, int64) (bool, error) {
	return true, nil
}

func (s *stubSequenceRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.SequenceRecord, error) {
	if s.listFn != nil {
		return s.listFn(ctx, filter)
	}
	return nil, nil
}

type stubDocumentRepo struct {
	created []domain.Document
	updated []domain.Document
	docs    map[int64]domain.Document
}

func (s *stubDocumentRepo) Create(_ context.Context, doc domain.Document) (domain.Document, error) {
	doc.ID = int64(len(s.created) + 1)
	s.created = append(s.created, doc)
	return doc, nil
}

func (s *stubDocumentRepo) Update(_ context.Context, doc domain.Document) (domain.Document, error) {
	s.updated = append(s.updated, doc)
	return doc, nil
}

func (s *stubDocumentRepo) Get(_ context.Context, id int64) (domain.Document, error) {
	d, ok := s.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return d, nil
}

func (s *stubDocumentRepo) Delete(context.Context, int64) (bool, error) { return true, nil }

func (s *stubDocumentRepo) List(context.Context, domain.ListFilter) ([]domain.Document, error) {
	return nil, nil
}

type stubCommentRepo struct {
	created  []domain.Comment
	comments map[int64]domain.Comment
	listFn   func(ctx context.Context, target domain.Target, filter domain.ListFilter) ([]domain.Comment, error)
}

func (s *stubCommentRepo) Create(_ context.Context, c domain.Comment) (domain.Comment, error) {
	c.ID = int64(len(s.created) + 1)
	s.created = append(s.created, c)
	return c, nil
}

func (s *stubCommentRepo) Update(_ context.Context, c domain.Comment) (domain.Comment, error) {
	return c, nil
}

func (s *stubCommentRepo) Get(_ context.Context, id int64) (domain.Comment, error) {
	c, ok := s.comments[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

func (s *stubCommentRepo) Delete(context.Context, int64) (bool, error) { return true, nil }

func (s *stubCommentRepo) ListForTarget(ctx context.Context, target domain.Target, filter domain.ListFilter) ([]domain.Comment, error) {
	if s.listFn != nil {
		return s.listFn(ctx, target, filter)
	}
	return nil, nil
}

type stubTargets map[domain.Target]bool

func (s stubTargets) Exists(_ context.Context, target domain.Target) (bool, error) {
	return s[target], nil
}

type stubNotificationRepo struct {
	created []domain.Notification
	items   map[int64]domain.Notification
}

func (s *stubNotificationRepo) Create(_ context.Context, n domain.Notification) (domain.Notification, error) {
	n.ID = int64(len(s.created) + 1)
	s.created = append(s.created, n)
	return n, nil
}

func (s *stubNotificationRepo) Update(_ context.Context, n domain.Notification) (domain.Notification, error) {
	return n, nil
}

func (s *stubNotificationRepo) Get(_ context.Context, id int64) (domain.Notification, error) {
	n, ok := s.items[id]
	if !ok {
		return domain.Notification{}, domain.ErrNotFound
	}
	return n, nil
}

func (s *stubNotificationRepo) List(context.Context, domain.ListFilter) ([]domain.Notification, error) {
	return nil, nil
}
