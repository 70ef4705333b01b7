package ports

import (
	"context"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	Get(ctx context.Context, id int64) (domain.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type SequenceRepository interface {
	Create(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error)
	Update(ctx context.Context, rec domain.SequenceRecord) (domain.SequenceRecord, error)
	Get(ctx context.Context, id int64) (domain.SequenceRecord, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.SequenceRecord, error)
}

type DocumentRepository interface {
	Create(ctx context.Context, doc domain.Document) (domain.Document, error)
	Update(ctx context.Context, doc domain.Document) (domain.Document, error)
	Get(ctx context.Context, id int64) (domain.Document, error)
	Delete(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Document, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Update(ctx context.Context, c domain.Comment) (domain.Comment, error)
	Get(ctx context.Context, id int64) (domain.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ListForTarget(ctx context.Context, target domain.Target, filter domain.ListFilter) ([]domain.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
	Update(ctx context.Context, n domain.Notification) (domain.Notification, error)
	Get(ctx context.Context, id int64) (domain.Notification, error)
	List(ctx context.Context, filter domain.ListFilter) ([]domain.Notification, error)
}

// TargetResolver reports whether a polymorphic reference points at an
// existing entity.
type TargetResolver interface {
	Exists(ctx context.Context, target domain.Target) (bool, error)
}
