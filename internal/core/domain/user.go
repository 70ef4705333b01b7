package domain

import (
	"regexp"
	"time"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._@+-]{1,150}$`)

// User is the owner every sequence, document and comment points at.
// Deleting a user cascades to everything they own.
type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

func (u User) Validate() error {
	if u.Username == "" {
		return missingField("username")
	}
	if !usernamePattern.MatchString(u.Username) {
		return newFieldError("username", CodeInvalidChoice, "Enter a valid username.")
	}
	return nil
}

func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}
