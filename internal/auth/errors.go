package auth

import "errors"

var (
	ErrEmailExists        = errors.New("user already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoSession          = errors.New("no valid session")
	ErrNotAdmin           = errors.New("admin access required")
)
