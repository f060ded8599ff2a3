package auth

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidCredential = errors.New("invalid email or password")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrTooManyAttempts   = errors.New("too many sign-in attempts")
	ErrEmailInUse        = errors.New("email already in use")
	ErrWeakPassword      = errors.New("password too weak")
)
