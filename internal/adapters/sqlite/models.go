package sqlite

import (
	"context"
	"time"

	"github.com/atvirokodosprendimai/seqnotes/internal/core/domain"
	"gorm.io/gorm"
)

type validatorCtxKey struct{}

// withValidator carries the record validator on the statement context so
// model hooks can reach it; gorm hooks only see the *gorm.DB.
func withValidator(ctx context.Context, v *domain.RecordValidator) context.Context {
	return context.WithValue(ctx, validatorCtxKey{}, v)
}

func validatorFrom(tx *gorm.DB) *domain.RecordValidator {
	if tx != nil && tx.Statement != nil && tx.Statement.Context != nil {
		if v, ok := tx.Statement.Context.Value(validatorCtxKey{}).(*domain.RecordValidator); ok && v != nil {
			return v
		}
	}
	return domain.NewRecordValidator(domain.LengthRuleCodon)
}

type userModel struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Username  string    `gorm:"column:username;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func (m *userModel) BeforeSave(*gorm.DB) error {
	return m.toDomain().Validate()
}

func (m userModel) toDomain() domain.User {
	return domain.User{ID: m.ID, Username: m.Username, CreatedAt: m.CreatedAt}
}

type sequenceModel struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	ProteinSequence string    `gorm:"column:protein_sequence;size:10000;not null"`
	DNASequence     string    `gorm:"column:dna_sequence;size:10000;not null"`
	OwnerID         int64     `gorm:"column:owner_id;not null;index"`
	CreatedAt       time.Time `gorm:"column:created_at;not null"`
	ModifiedAt      time.Time `gorm:"column:modified_at;not null"`
}

func (sequenceModel) TableName() string {
	return "sequences"
}

// BeforeSave runs on both create and save, so no sequence row is written
// without passing the validator.
func (m *sequenceModel) BeforeSave(tx *gorm.DB) error {
	return validatorFrom(tx).ValidateSequence(m.toDomain())
}

func (m sequenceModel) toDomain() domain.SequenceRecord {
	return domain.SequenceRecord{
		ID:              m.ID,
		ProteinSequence: m.ProteinSequence,
		DNASequence:     m.DNASequence,
		OwnerID:         m.OwnerID,
		CreatedAt:       m.CreatedAt,
		ModifiedAt:      m.ModifiedAt,
	}
}

type documentModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Body       string    `gorm:"column:body;type:text;not null"`
	OwnerID    int64     `gorm:"column:owner_id;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null"`
}

func (documentModel) TableName() string {
	return "documents"
}

func (m *documentModel) BeforeSave(tx *gorm.DB) error {
	return validatorFrom(tx).ValidateDocument(m.toDomain())
}

func (m documentModel) toDomain() domain.Document {
	return domain.Document{TextNote: domain.TextNote{
		ID:         m.ID,
		Body:       m.Body,
		OwnerID:    m.OwnerID,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}}
}

type commentModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Body       string    `gorm:"column:body;type:text;not null"`
	TargetType string    `gorm:"column:target_type;not null"`
	TargetID   int64     `gorm:"column:target_id;not null"`
	OwnerID    int64     `gorm:"column:owner_id;not null;index"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null"`
}

func (commentModel) TableName() string {
	return "comments"
}

func (m *commentModel) BeforeSave(tx *gorm.DB) error {
	return validatorFrom(tx).ValidateComment(m.toDomain())
}

func (m commentModel) toDomain() domain.Comment {
	return domain.Comment{
		TextNote: domain.TextNote{
			ID:         m.ID,
			Body:       m.Body,
			OwnerID:    m.OwnerID,
			CreatedAt:  m.CreatedAt,
			ModifiedAt: m.ModifiedAt,
		},
		Target: domain.Target{Type: domain.TargetType(m.TargetType), ID: m.TargetID},
	}
}

type notificationModel struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Kind       string    `gorm:"column:kind;not null"`
	Message    string    `gorm:"column:message;type:text;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;not null"`
	ModifiedAt time.Time `gorm:"column:modified_at;not null"`
}

func (notificationModel) TableName() string {
	return "notifications"
}

func (m *notificationModel) BeforeSave(tx *gorm.DB) error {
	return validatorFrom(tx).ValidateNotification(m.toDomain())
}

func (m notificationModel) toDomain() domain.Notification {
	return domain.Notification{
		ID:         m.ID,
		Kind:       domain.NotificationKind(m.Kind),
		Message:    m.Message,
		CreatedAt:  m.CreatedAt,
		ModifiedAt: m.ModifiedAt,
	}
}
