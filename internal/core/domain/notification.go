package domain

import "time"

type NotificationKind string

const (
	NotificationLink   NotificationKind = "Link"
	NotificationStatic NotificationKind = "Static"
	NotificationSystem NotificationKind = "System"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationLink, NotificationStatic, NotificationSystem:
		return true
	}
	return false
}

const (
	FieldNotificationKind = "kind"
	FieldMessage          = "message"
)

type Notification struct {
	ID         int64
	Kind       NotificationKind
	Message    string
	CreatedAt  time.Time
	ModifiedAt time.Time
}

func (n Notification) String() string {
	return n.Message
}
