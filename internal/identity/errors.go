package identity

import "errors"

var (
	ErrEmailPasswordRequired = errors.New("Email and password are required")
	ErrEmailRegistered       = errors.New("Email already registered")
	ErrInvalidEmail          = errors.New("Invalid Email")
	ErrIncorrectPassword     = errors.New("Incorrect Password")
	ErrAccountNotFound       = errors.New("Account not found")
)
