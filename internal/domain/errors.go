package domain

import "errors"

var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrUserNotFound  = errors.New("user not found")
)
