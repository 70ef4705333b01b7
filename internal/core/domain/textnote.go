package domain

import (
	"html"
	"time"
)

const FieldBody = "body"

// TextNote is the shape shared by comments and documents: owned free text.
type TextNote struct {
	ID         int64
	Body       string
	OwnerID    int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func (n TextNote) String() string {
	return n.Body
}

// Document is a standalone text note.
type Document struct {
	TextNote
}

// TargetType names the entity kinds a comment can attach to.
type TargetType string

const (
	TargetSequence TargetType = "sequence"
	TargetDocument TargetType = "document"
)

func (t TargetType) Valid() bool {
	switch t {
	case TargetSequence, TargetDocument:
		return true
	}
	return false
}

// Target is a polymorphic (type, id) reference.
type Target struct {
	Type TargetType
	ID   int64
}

const (
	FieldTargetType = "target_type"
	FieldTargetID   = "target_id"
)

// Comment is a text note attached to a sequence or document.
type Comment struct {
	TextNote
	Target Target
}

// EscapeText HTML-escapes free text before storage. It is not idempotent:
// escaping "&amp;" yields "&amp;amp;", so callers escape raw input once.
func EscapeText(text string) string {
	return html.EscapeString(text)
}
